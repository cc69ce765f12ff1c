package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Selection
	Select(pos Position) (SelectOutcome, error)
	ClearSelection()
	Selected() (Position, bool)

	// Board queries
	Get(row, col int) Cell
	Dimensions() (int, int)
	IsSolved() bool
	IsConnectable(a, b Position) bool

	// Analysis
	Hint() (Position, Position, bool)
	AvailableMoves() int
	IsStuck() bool

	// State
	GetState() *BoardState
	GetConfig() *BoardConfig
	GetMatchHistory() []MatchRecord
}

// MatchEngine owns the live board and the selection state. It is not safe for concurrent use;
// callers serialise Select calls.
type MatchEngine struct {
	board        *Board
	config       *BoardConfig
	selected     *Position
	removedPairs int
	history      []MatchRecord
	lastOutcome  *SelectOutcome
}

// NewMatchEngine takes ownership of board. The caller must not keep using it.
func NewMatchEngine(board *Board, config *BoardConfig) (*MatchEngine, error) {
	if board == nil {
		return nil, fmt.Errorf("%w: board cannot be nil", ErrInvalidConfiguration)
	}
	if id, ok := board.unpairedIdentity(); !ok {
		return nil, fmt.Errorf("%w: identity %q occupies an odd number of cells", ErrInvalidConfiguration, id)
	}
	return &MatchEngine{
		board:   board,
		config:  config,
		history: []MatchRecord{},
	}, nil
}

// NewEngine validates config, generates a board and wraps it in a MatchEngine
func NewEngine(config *BoardConfig) (*MatchEngine, error) {
	board, err := GenerateFromConfig(config)
	if err != nil {
		return nil, err
	}
	return NewMatchEngine(board, config)
}

// NewEngineWithDefaults creates an engine on the built-in classic board
func NewEngineWithDefaults() *MatchEngine {
	e, err := NewEngine(DefaultBoardConfig())
	if err != nil {
		// the built-in config is valid by construction
		panic(err)
	}
	return e
}

// Select advances the selection state machine.
//
// Idle + occupied cell -> FirstPicked. OneSelected(a) + a -> RejectedDuplicate with
// ErrDuplicateSelection, a stays selected. OneSelected(a) + b -> the pair is evaluated and the
// engine returns to Idle whatever the result. Empty or out-of-range cells fail with
// ErrInvalidSelection and leave the state unchanged.
func (e *MatchEngine) Select(pos Position) (SelectOutcome, error) {
	if !e.board.InBounds(pos) {
		return SelectOutcome{}, fmt.Errorf("%w: (%d,%d) is off the board", ErrInvalidSelection, pos.Row, pos.Col)
	}
	if e.board.IsEmpty(pos) {
		return SelectOutcome{}, fmt.Errorf("%w: (%d,%d) is empty", ErrInvalidSelection, pos.Row, pos.Col)
	}

	if e.selected == nil {
		p := pos
		e.selected = &p
		return e.record(SelectOutcome{Result: FirstPicked, First: &p}), nil
	}

	first := *e.selected
	if first == pos {
		return SelectOutcome{Result: RejectedDuplicate, First: &first},
			fmt.Errorf("%w: (%d,%d) is already selected", ErrDuplicateSelection, pos.Row, pos.Col)
	}

	e.selected = nil
	second := pos
	outcome := e.evaluate(first, second)
	return e.record(outcome), nil
}

// evaluate adjudicates a pair of distinct occupied positions
func (e *MatchEngine) evaluate(a, b Position) SelectOutcome {
	outcome := SelectOutcome{First: &a, Second: &b}
	cellA, cellB := e.board.At(a), e.board.At(b)

	if cellA.Identity != cellB.Identity {
		outcome.Result = NotAPair
	} else if path, ok := e.board.FindPath(a, b); ok {
		e.board.clear(a)
		e.board.clear(b)
		e.removedPairs++
		outcome.Result = MatchedAndRemoved
		outcome.Removed = []Position{a, b}
		outcome.Path = path
	} else {
		outcome.Result = MatchedButBlocked
	}

	e.history = append(e.history, MatchRecord{
		Result:      outcome.Result,
		First:       a,
		Second:      b,
		Identity:    cellA.Identity,
		Timestamp:   time.Now().Unix(),
		MatchNumber: len(e.history) + 1,
	})
	return outcome
}

func (e *MatchEngine) record(outcome SelectOutcome) SelectOutcome {
	o := outcome
	e.lastOutcome = &o
	return outcome
}

// ClearSelection drops any pending first pick
func (e *MatchEngine) ClearSelection() {
	e.selected = nil
}

// Selected returns the pending first pick, if any
func (e *MatchEngine) Selected() (Position, bool) {
	if e.selected == nil {
		return Position{}, false
	}
	return *e.selected, true
}

// Get returns the cell at (row, col)
func (e *MatchEngine) Get(row, col int) Cell {
	return e.board.Get(row, col)
}

// Dimensions returns (rows, cols)
func (e *MatchEngine) Dimensions() (int, int) {
	return e.board.Dimensions()
}

// IsSolved is true once every token has been removed
func (e *MatchEngine) IsSolved() bool {
	return e.board.IsSolved()
}

// IsConnectable runs the path search on the live board
func (e *MatchEngine) IsConnectable(a, b Position) bool {
	return e.board.IsConnectable(a, b)
}

// Hint returns one removable pair
func (e *MatchEngine) Hint() (Position, Position, bool) {
	return e.board.Hint()
}

// AvailableMoves counts removable pairs
func (e *MatchEngine) AvailableMoves() int {
	return e.board.AvailableMoves()
}

// IsStuck is true when tokens remain but none can be removed
func (e *MatchEngine) IsStuck() bool {
	return e.board.IsStuck()
}

// Board returns a deep copy of the live board
func (e *MatchEngine) Board() *Board {
	return e.board.Clone()
}

// RemovedPairs returns how many pairs have been removed so far
func (e *MatchEngine) RemovedPairs() int {
	return e.removedPairs
}

// GetConfig returns the configuration the board was generated from
func (e *MatchEngine) GetConfig() *BoardConfig {
	return e.config
}

// GetMatchHistory returns every evaluated pair in order
func (e *MatchEngine) GetMatchHistory() []MatchRecord {
	out := make([]MatchRecord, len(e.history))
	copy(out, e.history)
	return out
}

// GetLastMatch returns the most recent evaluated pair, or nil
func (e *MatchEngine) GetLastMatch() *MatchRecord {
	if len(e.history) == 0 {
		return nil
	}
	rec := e.history[len(e.history)-1]
	return &rec
}

// GetState builds a snapshot for presentation. The grid is copied.
func (e *MatchEngine) GetState() *BoardState {
	rows, cols := e.board.Dimensions()
	state := &BoardState{
		Rows:           rows,
		Cols:           cols,
		Grid:           e.board.Grid(),
		Remaining:      e.board.Occupied(),
		RemovedPairs:   e.removedPairs,
		AvailableMoves: e.board.AvailableMoves(),
		Solved:         e.board.IsSolved(),
		LastOutcome:    e.lastOutcome,
	}
	state.Stuck = !state.Solved && state.AvailableMoves == 0
	if e.selected != nil {
		p := *e.selected
		state.Selected = &p
	}
	if e.config != nil {
		state.ConfigName = e.config.Name
	}
	return state
}
