package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Board is the R×C occupancy grid. It is owned by exactly one MatchEngine once a game starts.
type Board struct {
	rows  int
	cols  int
	cells []Cell
}

// NewEmptyBoard creates a board of the given size with every cell empty
func NewEmptyBoard(rows, cols int) (*Board, error) {
	if rows < MinBoardSide || cols < MinBoardSide {
		return nil, fmt.Errorf("%w: board must be at least %dx%d, got %dx%d",
			ErrInvalidConfiguration, MinBoardSide, MinBoardSide, rows, cols)
	}
	return &Board{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}, nil
}

// BoardFromRows builds a board from text rows, one rune per cell. '.' is an empty cell and any
// other rune is an identity. Every identity must appear an even number of times.
func BoardFromRows(rows []string) (*Board, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidConfiguration)
	}
	width := len([]rune(rows[0]))
	b, err := NewEmptyBoard(len(rows), width)
	if err != nil {
		return nil, err
	}
	for r, line := range rows {
		runes := []rune(line)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidConfiguration, r, len(runes), width)
		}
		for c, ch := range runes {
			if ch == '.' {
				continue
			}
			b.set(Position{Row: r, Col: c}, Cell{Identity: string(ch), Occupied: true})
		}
	}
	if id, ok := b.unpairedIdentity(); !ok {
		return nil, fmt.Errorf("%w: identity %q occupies an odd number of cells", ErrInvalidConfiguration, id)
	}
	return b, nil
}

// BoardFromGrid rebuilds a board from a row-major cell grid, such as BoardState.Grid
func BoardFromGrid(grid [][]Cell) (*Board, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidConfiguration)
	}
	b, err := NewEmptyBoard(len(grid), len(grid[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range grid {
		if len(row) != b.cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidConfiguration, r, len(row), b.cols)
		}
		for c, cell := range row {
			if cell.Occupied {
				b.set(Position{Row: r, Col: c}, cell)
			}
		}
	}
	if id, ok := b.unpairedIdentity(); !ok {
		return nil, fmt.Errorf("%w: identity %q occupies an odd number of cells", ErrInvalidConfiguration, id)
	}
	return b, nil
}

// Dimensions returns (rows, cols)
func (b *Board) Dimensions() (int, int) {
	return b.rows, b.cols
}

// InBounds reports whether pos lies on the board
func (b *Board) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.rows && pos.Col >= 0 && pos.Col < b.cols
}

// Get returns the cell at (row, col). Out-of-range coordinates read as empty.
func (b *Board) Get(row, col int) Cell {
	pos := Position{Row: row, Col: col}
	if !b.InBounds(pos) {
		return Cell{}
	}
	return b.cells[b.index(pos)]
}

// At is Get by Position
func (b *Board) At(pos Position) Cell {
	return b.Get(pos.Row, pos.Col)
}

// IsEmpty reports whether an in-bounds cell holds no token
func (b *Board) IsEmpty(pos Position) bool {
	return b.InBounds(pos) && !b.cells[b.index(pos)].Occupied
}

// IsSolved is true iff every cell is empty
func (b *Board) IsSolved() bool {
	return b.Occupied() == 0
}

// Occupied counts occupied cells
func (b *Board) Occupied() int {
	count := 0
	for _, cell := range b.cells {
		if cell.Occupied {
			count++
		}
	}
	return count
}

// Tokens lists every occupied cell in row-major order
func (b *Board) Tokens() []Token {
	tokens := make([]Token, 0, len(b.cells))
	for i, cell := range b.cells {
		if cell.Occupied {
			tokens = append(tokens, Token{Identity: cell.Identity, Position: b.position(i)})
		}
	}
	return tokens
}

// IdentityCounts returns how many cells each identity occupies
func (b *Board) IdentityCounts() map[string]int {
	counts := make(map[string]int)
	for _, cell := range b.cells {
		if cell.Occupied {
			counts[cell.Identity]++
		}
	}
	return counts
}

// Clone returns a deep copy that shares nothing with b
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{rows: b.rows, cols: b.cols, cells: cells}
}

// Grid returns a copy of the cells as a row-major 2D slice
func (b *Board) Grid() [][]Cell {
	grid := make([][]Cell, b.rows)
	for r := range grid {
		grid[r] = make([]Cell, b.cols)
		copy(grid[r], b.cells[r*b.cols:(r+1)*b.cols])
	}
	return grid
}

// Rows renders the board as text, one string per row: first rune of the identity, '.' when empty
func (b *Board) Rows() []string {
	out := make([]string, b.rows)
	for r := 0; r < b.rows; r++ {
		var sb strings.Builder
		for c := 0; c < b.cols; c++ {
			sb.WriteRune(CellRune(b.Get(r, c)))
		}
		out[r] = sb.String()
	}
	return out
}

// legendRunes are handed out to identities in sorted order
const legendRunes = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Legend assigns each identity on the board a distinct single rune, in sorted identity order.
// Identities beyond the available runes fall back to '?'.
func (b *Board) Legend() map[string]rune {
	ids := make([]string, 0)
	for id := range b.IdentityCounts() {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	runes := []rune(legendRunes)
	legend := make(map[string]rune, len(ids))
	for i, id := range ids {
		if i < len(runes) {
			legend[id] = runes[i]
		} else {
			legend[id] = '?'
		}
	}
	return legend
}

// Render draws the board through a legend. Identities missing from the legend use CellRune.
func (b *Board) Render(legend map[string]rune) []string {
	out := make([]string, b.rows)
	for r := 0; r < b.rows; r++ {
		var sb strings.Builder
		for c := 0; c < b.cols; c++ {
			cell := b.Get(r, c)
			ch, ok := legend[cell.Identity]
			if !cell.Occupied || !ok {
				ch = CellRune(cell)
			}
			sb.WriteRune(ch)
		}
		out[r] = sb.String()
	}
	return out
}

// CellRune maps a cell to the rune text renderers draw for it
func CellRune(cell Cell) rune {
	if !cell.Occupied || cell.Identity == "" {
		return '.'
	}
	return []rune(cell.Identity)[0]
}

func (b *Board) set(pos Position, cell Cell) {
	b.cells[b.index(pos)] = cell
}

func (b *Board) clear(pos Position) {
	b.cells[b.index(pos)] = Cell{}
}

func (b *Board) index(pos Position) int {
	return pos.Row*b.cols + pos.Col
}

func (b *Board) position(i int) Position {
	return Position{Row: i / b.cols, Col: i % b.cols}
}

// unpairedIdentity returns the first identity with an odd count, ok == false if one exists
func (b *Board) unpairedIdentity() (string, bool) {
	for id, n := range b.IdentityCounts() {
		if n%2 != 0 {
			return id, false
		}
	}
	return "", true
}
