package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/wricardo/mahjong-connect/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// History pagination limits
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given display name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.BoardConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let the session manager generate a 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.WithFields(log.Fields{"session": sess.ID, "config": configID}).Info("Session created")
	return s.sessionInfo(sess, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, s.getConfigID(sess.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	log.WithField("session", sessionID).Info("Session deleted")
	return nil
}

// Select forwards a tile pick to the session's engine
func (s *gameServiceImpl) Select(ctx context.Context, sessionID string, pos engine.Position) (*SelectResult, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var (
		outcome  engine.SelectOutcome
		identity string
		state    *engine.BoardState
	)
	sess.Do(func(e *engine.MatchEngine) {
		identity = e.Get(pos.Row, pos.Col).Identity
		outcome, err = e.Select(pos)
		state = e.GetState()
	})

	logger := log.WithFields(log.Fields{"session": sessionID, "row": pos.Row, "col": pos.Col})
	if err != nil {
		logger.WithError(err).Debug("Selection rejected")
		return nil, fmt.Errorf("select (%d,%d): %w", pos.Row, pos.Col, err)
	}
	logger.WithField("result", outcome.Result).Debug("Selection evaluated")

	return &SelectResult{
		Result:     outcome.Result,
		Removed:    outcome.Removed,
		Path:       outcome.Path,
		Message:    describeOutcome(outcome, identity),
		BoardState: state,
		Events:     outcomeEvents(outcome, identity, state),
	}, nil
}

// ClearSelection drops the pending first pick
func (s *gameServiceImpl) ClearSelection(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var state *engine.BoardState
	sess.Do(func(e *engine.MatchEngine) {
		e.ClearSelection()
		state = e.GetState()
	})
	return state, nil
}

// GetHint returns one removable pair on the session's board
func (s *gameServiceImpl) GetHint(ctx context.Context, sessionID string) (*HintResult, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	result := &HintResult{}
	sess.Do(func(e *engine.MatchEngine) {
		result.Solved = e.IsSolved()
		result.AvailableMoves = e.AvailableMoves()
		result.Stuck = !result.Solved && result.AvailableMoves == 0
		if a, b, ok := e.Hint(); ok {
			result.Available = true
			result.First = &a
			result.Second = &b
			result.Identity = e.Get(a.Row, a.Col).Identity
		}
	})
	return result, nil
}

// GetBoardState returns the current board snapshot
func (s *gameServiceImpl) GetBoardState(ctx context.Context, sessionID string) (*engine.BoardState, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var state *engine.BoardState
	sess.Do(func(e *engine.MatchEngine) {
		state = e.GetState()
	})
	return state, nil
}

// GetMatchHistory returns paginated match history
func (s *gameServiceImpl) GetMatchHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	var history []engine.MatchRecord
	sess.Do(func(e *engine.MatchEngine) {
		history = e.GetMatchHistory()
	})
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	matches := []engine.MatchRecord{}
	if start < total {
		if opts.Order == "desc" {
			// most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				matches = append(matches, history[i])
			}
		} else {
			matches = append(matches, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Matches:      matches,
		TotalMatches: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns available board presets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board preset
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	info := &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		BoardConfig:    sess.Config,
	}
	sess.Do(func(e *engine.MatchEngine) {
		info.BoardState = e.GetState()
	})
	return info
}

// describeOutcome renders a one-line message for a selection outcome
func describeOutcome(outcome engine.SelectOutcome, identity string) string {
	switch outcome.Result {
	case engine.FirstPicked:
		return fmt.Sprintf("Picked %s at (%d,%d). Pick its partner.", identity, outcome.First.Row, outcome.First.Col)
	case engine.MatchedAndRemoved:
		return fmt.Sprintf("Removed a pair of %s.", identity)
	case engine.MatchedButBlocked:
		return fmt.Sprintf("The %s tiles match but no path with at most %d turns joins them.", identity, engine.MaxTurns)
	case engine.NotAPair:
		return "Those tiles do not match."
	default:
		return string(outcome.Result)
	}
}

func outcomeEvents(outcome engine.SelectOutcome, identity string, state *engine.BoardState) []GameEvent {
	now := time.Now()
	event := GameEvent{Message: describeOutcome(outcome, identity), Timestamp: now}

	switch outcome.Result {
	case engine.FirstPicked:
		event.Type = EventFirstPicked
		event.Positions = []engine.Position{*outcome.First}
	case engine.MatchedAndRemoved:
		event.Type = EventTilesRemoved
		event.Positions = outcome.Removed
	case engine.MatchedButBlocked:
		event.Type = EventBlocked
		event.Positions = []engine.Position{*outcome.First, *outcome.Second}
	case engine.NotAPair:
		event.Type = EventNotAPair
		event.Positions = []engine.Position{*outcome.First, *outcome.Second}
	}
	events := []GameEvent{event}

	if outcome.Result == engine.MatchedAndRemoved {
		switch {
		case state.Solved:
			events = append(events, GameEvent{Type: EventSolved, Message: "Board cleared!", Timestamp: now})
		case state.Stuck:
			events = append(events, GameEvent{Type: EventStuck, Message: "No removable pairs remain.", Timestamp: now})
		}
	}
	return events
}
