package main

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
	"github.com/wricardo/mahjong-connect/game/engine"
)

const (
	// board origin on screen
	originX = 4
	originY = 2

	// cells are drawn two columns wide
	cellWidth = 2

	pathShowMs = 400
	frameMs    = 50
)

var (
	styleTile     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleEmpty    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleCursor   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow).Reverse(true)
	styleHint     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	stylePath     = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Game drives one MatchEngine from the keyboard
type Game struct {
	screen tcell.Screen
	sound  Sound
	config *engine.BoardConfig

	eng    *engine.MatchEngine
	legend map[string]rune
	cursor engine.Position
	hint   []engine.Position

	path      []engine.Position
	pathUntil time.Time

	status string
}

// NewGame wraps an existing engine. The legend is fixed for the lifetime of the board.
func NewGame(screen tcell.Screen, eng *engine.MatchEngine, sound Sound) *Game {
	if sound == nil {
		sound = mutedSound{}
	}
	g := &Game{
		screen: screen,
		sound:  sound,
		config: eng.GetConfig(),
	}
	g.reset(eng)
	return g
}

func (g *Game) reset(eng *engine.MatchEngine) {
	g.eng = eng
	g.legend = eng.Board().Legend()
	g.cursor = engine.Position{}
	g.hint = nil
	g.path = nil
	g.status = "Arrows/hjkl move, space selects, ? hints, n deals a new board, q quits"
}

// newBoard deals a fresh board from the same preset. A preset seed only fixes the first deal.
func (g *Game) newBoard() {
	if g.config == nil {
		return
	}
	cfg := *g.config
	cfg.Seed = 0
	eng, err := engine.NewEngine(&cfg)
	if err != nil {
		g.status = err.Error()
		return
	}
	g.reset(eng)
	log.WithField("preset", g.config.Name).Info("New board dealt")
}

func (g *Game) moveCursor(dRow, dCol int) {
	rows, cols := g.eng.Dimensions()
	g.cursor.Row = (g.cursor.Row + dRow + rows) % rows
	g.cursor.Col = (g.cursor.Col + dCol + cols) % cols
}

func (g *Game) selectAtCursor() {
	outcome, err := g.eng.Select(g.cursor)
	switch {
	case errors.Is(err, engine.ErrInvalidSelection):
		g.status = "That cell is empty"
		g.sound.Miss()
		return
	case errors.Is(err, engine.ErrDuplicateSelection):
		g.status = "Already selected, pick its partner or press c"
		return
	case err != nil:
		g.status = err.Error()
		return
	}

	g.hint = nil
	switch outcome.Result {
	case engine.FirstPicked:
		g.status = fmt.Sprintf("Picked (%d,%d)", g.cursor.Row, g.cursor.Col)
	case engine.MatchedAndRemoved:
		g.path = outcome.Path
		g.pathUntil = time.Now().Add(pathShowMs * time.Millisecond)
		g.sound.Match()
		switch {
		case g.eng.IsSolved():
			g.status = "Solved! Press n for a new board"
		case g.eng.IsStuck():
			g.status = "Stuck: no removable pair left. Press n for a new board"
		default:
			g.status = fmt.Sprintf("Removed a pair, %d moves available", g.eng.AvailableMoves())
		}
	case engine.MatchedButBlocked:
		g.sound.Miss()
		g.status = "Those tiles match but no path with at most 2 turns joins them"
	case engine.NotAPair:
		g.sound.Miss()
		g.status = "Not a pair"
	}
}

func (g *Game) showHint() {
	a, b, ok := g.eng.Hint()
	if !ok {
		g.hint = nil
		g.status = "No removable pair left"
		return
	}
	g.hint = []engine.Position{a, b}
	g.status = fmt.Sprintf("Try (%d,%d) and (%d,%d)", a.Row, a.Col, b.Row, b.Col)
}

// handleKey applies one key press and reports whether the game should keep running
func (g *Game) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		g.moveCursor(-1, 0)
	case tcell.KeyDown:
		g.moveCursor(1, 0)
	case tcell.KeyLeft:
		g.moveCursor(0, -1)
	case tcell.KeyRight:
		g.moveCursor(0, 1)
	case tcell.KeyEnter:
		g.selectAtCursor()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		g.eng.ClearSelection()
		g.status = "Selection cleared"
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'k':
			g.moveCursor(-1, 0)
		case 'j':
			g.moveCursor(1, 0)
		case 'h':
			g.moveCursor(0, -1)
		case 'l':
			g.moveCursor(0, 1)
		case ' ':
			g.selectAtCursor()
		case 'c':
			g.eng.ClearSelection()
			g.status = "Selection cleared"
		case '?':
			g.showHint()
		case 'n':
			g.newBoard()
		}
	}
	return true
}

// pathCells expands path waypoints into every cell the path crosses, endpoints excluded
func pathCells(path []engine.Position) []engine.Position {
	var cells []engine.Position
	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]
		dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
		for p := from; p != to; p = (engine.Position{Row: p.Row + dr, Col: p.Col + dc}) {
			if p != path[0] {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (g *Game) drawText(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		g.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (g *Game) draw() {
	g.screen.Clear()
	rows, cols := g.eng.Dimensions()

	title := "Mahjong Connect"
	if g.config != nil {
		title += " - " + g.config.Name
	}
	g.drawText(0, 0, styleLabel, title)

	for c := 0; c < cols; c++ {
		g.screen.SetContent(originX+c*cellWidth, originY-1, rune('0'+c%10), nil, styleLabel)
	}

	marked := map[engine.Position]tcell.Style{}
	for _, p := range g.hint {
		marked[p] = styleHint
	}
	if selected, ok := g.eng.Selected(); ok {
		marked[selected] = styleSelected
	}
	var trail map[engine.Position]bool
	if len(g.path) > 0 && time.Now().Before(g.pathUntil) {
		trail = map[engine.Position]bool{}
		for _, p := range pathCells(g.path) {
			trail[p] = true
		}
	}

	for r := 0; r < rows; r++ {
		g.drawText(0, originY+r, styleLabel, fmt.Sprintf("%2d", r))
		for c := 0; c < cols; c++ {
			pos := engine.Position{Row: r, Col: c}
			cell := g.eng.Get(r, c)

			ch, style := '.', styleEmpty
			if cell.Occupied {
				ch, style = g.legend[cell.Identity], styleTile
				if ch == 0 {
					ch = engine.CellRune(cell)
				}
			} else if trail[pos] {
				ch, style = '*', stylePath
			}
			if s, ok := marked[pos]; ok {
				style = s
			}
			if pos == g.cursor {
				style = styleCursor
			}
			g.screen.SetContent(originX+c*cellWidth, originY+r, ch, nil, style)
		}
	}

	// legend to the right of the board
	ids := make([]string, 0, len(g.legend))
	for id := range g.legend {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	legendX := originX + cols*cellWidth + 2
	for i, id := range ids {
		g.drawText(legendX, originY+i, styleLabel, fmt.Sprintf("%c %s", g.legend[id], id))
	}

	info := fmt.Sprintf("Tiles left: %d  Pairs removed: %d", g.eng.Board().Occupied(), g.eng.RemovedPairs())
	g.drawText(0, originY+rows+1, styleLabel, info)
	g.drawText(0, originY+rows+2, styleStatus, g.status)

	g.screen.Show()
}

// run polls events until the player quits
func (g *Game) run() {
	ticker := time.NewTicker(frameMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	g.draw()
	for {
		select {
		case ev, ok := <-eventChan:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !g.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				g.screen.Sync()
			}
			g.draw()

		case <-ticker.C:
			if g.path != nil && time.Now().After(g.pathUntil) {
				g.path = nil
				g.draw()
			}
		}
	}
}
