package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/mahjong-connect/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Select(ctx context.Context, sessionID string, pos engine.Position) (*SelectResult, error)
	ClearSelection(ctx context.Context, sessionID string) (*engine.BoardState, error)
	GetHint(ctx context.Context, sessionID string) (*HintResult, error)

	// Game State
	GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error)
	GetMatchHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.BoardConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles board preset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
}

// Session represents an active game session. The engine is not safe for concurrent use, so
// every access goes through Do.
type Session struct {
	ID        string
	Engine    *engine.MatchEngine
	Config    *engine.BoardConfig
	CreatedAt time.Time

	mu             sync.Mutex
	lastAccessedAt time.Time
}

// NewSession wraps an engine in a session stamped with the current time
func NewSession(id string, eng *engine.MatchEngine, config *engine.BoardConfig) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		lastAccessedAt: now,
	}
}

// Do runs fn with exclusive access to the session's engine
func (s *Session) Do(fn func(e *engine.MatchEngine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.Engine)
}

// Touch marks the session as used now
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastAccessedAt = time.Now()
	s.mu.Unlock()
}

// SetLastAccessed overrides the access time
func (s *Session) SetLastAccessed(t time.Time) {
	s.mu.Lock()
	s.lastAccessedAt = t
	s.mu.Unlock()
}

// LastAccessed returns when the session was last used
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}
