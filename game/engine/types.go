package engine

import "errors"

// Validation constants
const (
	MinBoardSide = 1
	MaxBoardSide = 32

	DefaultRows = 6
	DefaultCols = 6

	// MaxTurns is the number of bends a connecting path may make.
	MaxTurns = 2

	WebSocketBufferSize = 256
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidSelection     = errors.New("invalid selection")
	ErrDuplicateSelection   = errors.New("duplicate selection")
)

// Position represents row,col coordinates on the board
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Cell is a single board cell. An empty cell has Occupied == false and no identity.
type Cell struct {
	Identity string `json:"identity,omitempty"`
	Occupied bool   `json:"occupied"`
}

// Token is an occupied cell together with its position
type Token struct {
	Identity string   `json:"identity"`
	Position Position `json:"position"`
}

// Direction of a single step during path search
type Direction int

const (
	NoDirection Direction = iota - 1
	Up
	Down
	Left
	Right
)

var directionDeltas = [4]Position{
	Up:    {Row: -1, Col: 0},
	Down:  {Row: 1, Col: 0},
	Left:  {Row: 0, Col: -1},
	Right: {Row: 0, Col: 1},
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// SelectionResult is the outcome of a single Select call
type SelectionResult string

const (
	FirstPicked       SelectionResult = "first_picked"
	RejectedDuplicate SelectionResult = "rejected_duplicate"
	MatchedAndRemoved SelectionResult = "matched_and_removed"
	MatchedButBlocked SelectionResult = "matched_but_blocked"
	NotAPair          SelectionResult = "not_a_pair"
)

// BoardConfig is the construction-time configuration of a game
type BoardConfig struct {
	Name        string   `json:"name" hcl:"name"`
	Description string   `json:"description" hcl:"description,optional"`
	Rows        int      `json:"rows" hcl:"rows"`
	Cols        int      `json:"cols" hcl:"cols"`
	Identities  []string `json:"identities" hcl:"identities"`
	// Seed makes generation reproducible when non-zero
	Seed uint64 `json:"seed,omitempty" hcl:"seed,optional"`
}

// SelectOutcome is what the presentation layer receives for every Select call.
type SelectOutcome struct {
	Result SelectionResult `json:"result"`
	First  *Position       `json:"first,omitempty"`
	Second *Position       `json:"second,omitempty"`
	// Removed holds the two emptied positions on MatchedAndRemoved
	Removed []Position `json:"removed,omitempty"`
	// Path holds the waypoints of the connecting path on MatchedAndRemoved
	Path []Position `json:"path,omitempty"`
}

// MatchRecord is one evaluated pair in the match log
type MatchRecord struct {
	Result      SelectionResult `json:"result"`
	First       Position        `json:"first"`
	Second      Position        `json:"second"`
	Identity    string          `json:"identity"`
	Timestamp   int64           `json:"timestamp"`
	MatchNumber int             `json:"match_number"`
}

// BoardState is a read-only snapshot of an engine for presentation
type BoardState struct {
	Rows           int            `json:"rows"`
	Cols           int            `json:"cols"`
	Grid           [][]Cell       `json:"grid"`
	Selected       *Position      `json:"selected,omitempty"`
	Remaining      int            `json:"remaining"`
	RemovedPairs   int            `json:"removed_pairs"`
	AvailableMoves int            `json:"available_moves"`
	Solved         bool           `json:"solved"`
	Stuck          bool           `json:"stuck"`
	ConfigName     string         `json:"config_name"`
	LastOutcome    *SelectOutcome `json:"last_outcome,omitempty"`
}
