package service

import (
	"time"

	"github.com/wricardo/mahjong-connect/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	BoardState     *engine.BoardState  `json:"board_state"`
	BoardConfig    *engine.BoardConfig `json:"board_config"`
}

// SelectResult contains the result of a select operation
type SelectResult struct {
	Result     engine.SelectionResult `json:"result"`
	Removed    []engine.Position      `json:"removed,omitempty"`
	Path       []engine.Position      `json:"path,omitempty"`
	Message    string                 `json:"message"`
	BoardState *engine.BoardState     `json:"board_state"`
	Events     []GameEvent            `json:"events,omitempty"`
}

// HintResult points at one removable pair, if any
type HintResult struct {
	Available      bool             `json:"available"`
	First          *engine.Position `json:"first,omitempty"`
	Second         *engine.Position `json:"second,omitempty"`
	Identity       string           `json:"identity,omitempty"`
	AvailableMoves int              `json:"available_moves"`
	Stuck          bool             `json:"stuck"`
	Solved         bool             `json:"solved"`
}

// Event types carried by GameEvent
const (
	EventFirstPicked  = "first_picked"
	EventTilesRemoved = "tiles_removed"
	EventBlocked      = "blocked"
	EventNotAPair     = "not_a_pair"
	EventSolved       = "solved"
	EventStuck        = "stuck"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string            `json:"type"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Positions []engine.Position `json:"positions,omitempty"`
}

// HistoryOptions configures match history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated match history
type HistoryResponse struct {
	Matches      []engine.MatchRecord `json:"matches"`
	TotalMatches int                  `json:"total_matches"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	TotalPages   int                  `json:"total_pages"`
	HasNext      bool                 `json:"has_next"`
	HasPrevious  bool                 `json:"has_previous"`
}

// ConfigInfo provides information about a board preset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	Pairs       int    `json:"pairs"`
	Identities  int    `json:"identities"`
}
