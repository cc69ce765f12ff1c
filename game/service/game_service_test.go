package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/mahjong-connect/game/engine"
	"github.com/wricardo/mahjong-connect/game/service"
)

// fixtureRows is the board every mock session starts from:
// the A pair connects straight, C is adjacent, B is blocked until C goes
var fixtureRows = []string{
	"A..A",
	"BCCB",
}

// fixtureTiles counts the occupied cells of fixtureRows
func fixtureTiles() int {
	n := 0
	for _, row := range fixtureRows {
		n += len(row) - strings.Count(row, ".")
	}
	return n
}

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	mu       sync.Mutex
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.BoardConfig) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	board, err := engine.BoardFromRows(fixtureRows)
	if err != nil {
		return nil, err
	}
	eng, err := engine.NewMatchEngine(board, config)
	if err != nil {
		return nil, err
	}

	sess := service.NewSession(id, eng, config)
	m.sessions[id] = sess
	return sess, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MockSessionManager) List() []*service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}
	sess.Touch()
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.BoardConfig
}

func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{
		configs: map[string]*engine.BoardConfig{
			"test": {
				Name:        "Test Board",
				Description: "Test configuration",
				Rows:        2,
				Cols:        4,
				Identities:  []string{"A", "B", "C"},
			},
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.BoardConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, service.ErrConfigNotFound
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var infos []*service.ConfigInfo
	for id, config := range m.configs {
		infos = append(infos, &service.ConfigInfo{
			Filename: id + ".json",
			ConfigID: id,
			Name:     config.Name,
			Rows:     config.Rows,
			Cols:     config.Cols,
		})
	}
	return infos, nil
}

func (m *MockConfigManager) GetDefault() *engine.BoardConfig {
	return m.configs["test"]
}

func newTestService(t *testing.T) (service.GameService, string) {
	t.Helper()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
	info, err := svc.CreateSession(context.Background(), "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, info.ID
}

func selectPair(t *testing.T, svc service.GameService, id string, a, b engine.Position) *service.SelectResult {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Select(ctx, id, a); err != nil {
		t.Fatalf("First select failed: %v", err)
	}
	result, err := svc.Select(ctx, id, b)
	if err != nil {
		t.Fatalf("Second select failed: %v", err)
	}
	return result
}

func TestGameService_CreateSession(t *testing.T) {
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
	ctx := context.Background()

	t.Run("named config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "test")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.ConfigName != "test" {
			t.Errorf("Expected config name 'test', got '%s'", info.ConfigName)
		}
		if info.BoardState == nil || info.BoardState.Remaining != fixtureTiles() {
			t.Errorf("Expected the fixture's %d tiles, got %+v", fixtureTiles(), info.BoardState)
		}
	})

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.ConfigName != "test" {
			t.Errorf("Expected default config id 'test', got '%s'", info.ConfigName)
		}
	})

	t.Run("unknown config", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "nope")
		if !errors.Is(err, service.ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestGameService_SessionLifecycle(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	info, err := svc.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if info.ID != id {
		t.Errorf("Expected session %s, got %s", id, info.ID)
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil || len(sessions) != 1 {
		t.Fatalf("Expected 1 session, got %d (%v)", len(sessions), err)
	}

	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := svc.GetSession(ctx, id); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestGameService_Select(t *testing.T) {
	ctx := context.Background()

	t.Run("first pick", func(t *testing.T) {
		svc, id := newTestService(t)
		result, err := svc.Select(ctx, id, engine.Position{Row: 0, Col: 0})
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if result.Result != engine.FirstPicked {
			t.Errorf("Expected FirstPicked, got %s", result.Result)
		}
		if len(result.Events) != 1 || result.Events[0].Type != service.EventFirstPicked {
			t.Errorf("Expected first_picked event, got %+v", result.Events)
		}
		if result.BoardState.Selected == nil {
			t.Error("Expected board state to carry the selection")
		}
	})

	t.Run("matched and removed", func(t *testing.T) {
		svc, id := newTestService(t)
		result := selectPair(t, svc, id, engine.Position{Row: 0, Col: 0}, engine.Position{Row: 0, Col: 3})
		if result.Result != engine.MatchedAndRemoved {
			t.Fatalf("Expected MatchedAndRemoved, got %s", result.Result)
		}
		if len(result.Removed) != 2 || len(result.Path) < 2 {
			t.Errorf("Expected removed positions and a path, got %v %v", result.Removed, result.Path)
		}
		if result.Events[0].Type != service.EventTilesRemoved {
			t.Errorf("Expected tiles_removed event, got %s", result.Events[0].Type)
		}
		if want := fixtureTiles() - 2; result.BoardState.Remaining != want {
			t.Errorf("Expected %d remaining tiles, got %d", want, result.BoardState.Remaining)
		}
	})

	t.Run("blocked", func(t *testing.T) {
		svc, id := newTestService(t)
		result := selectPair(t, svc, id, engine.Position{Row: 1, Col: 0}, engine.Position{Row: 1, Col: 3})
		if result.Result != engine.MatchedButBlocked {
			t.Errorf("Expected MatchedButBlocked, got %s", result.Result)
		}
		if result.BoardState.Remaining != fixtureTiles() {
			t.Errorf("Blocked match must not remove tiles, %d remaining", result.BoardState.Remaining)
		}
	})

	t.Run("not a pair", func(t *testing.T) {
		svc, id := newTestService(t)
		result := selectPair(t, svc, id, engine.Position{Row: 0, Col: 0}, engine.Position{Row: 1, Col: 0})
		if result.Result != engine.NotAPair {
			t.Errorf("Expected NotAPair, got %s", result.Result)
		}
		if result.Events[0].Type != service.EventNotAPair {
			t.Errorf("Expected not_a_pair event, got %s", result.Events[0].Type)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, id := newTestService(t)
		p := engine.Position{Row: 0, Col: 0}
		if _, err := svc.Select(ctx, id, p); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if _, err := svc.Select(ctx, id, p); !errors.Is(err, engine.ErrDuplicateSelection) {
			t.Errorf("Expected ErrDuplicateSelection, got %v", err)
		}
	})

	t.Run("empty cell", func(t *testing.T) {
		svc, id := newTestService(t)
		if _, err := svc.Select(ctx, id, engine.Position{Row: 0, Col: 1}); !errors.Is(err, engine.ErrInvalidSelection) {
			t.Errorf("Expected ErrInvalidSelection, got %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		svc, _ := newTestService(t)
		if _, err := svc.Select(ctx, "missing", engine.Position{}); !errors.Is(err, service.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestGameService_PlayToSolved(t *testing.T) {
	svc, id := newTestService(t)

	selectPair(t, svc, id, engine.Position{Row: 1, Col: 1}, engine.Position{Row: 1, Col: 2})
	selectPair(t, svc, id, engine.Position{Row: 1, Col: 0}, engine.Position{Row: 1, Col: 3})
	result := selectPair(t, svc, id, engine.Position{Row: 0, Col: 0}, engine.Position{Row: 0, Col: 3})

	if !result.BoardState.Solved {
		t.Fatal("Expected solved board")
	}
	last := result.Events[len(result.Events)-1]
	if last.Type != service.EventSolved {
		t.Errorf("Expected solved event, got %s", last.Type)
	}
}

func TestGameService_ClearSelection(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	svc.Select(ctx, id, engine.Position{Row: 0, Col: 0})
	state, err := svc.ClearSelection(ctx, id)
	if err != nil {
		t.Fatalf("ClearSelection failed: %v", err)
	}
	if state.Selected != nil {
		t.Error("Expected selection to be cleared")
	}
}

func TestGameService_GetHint(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	hint, err := svc.GetHint(ctx, id)
	if err != nil {
		t.Fatalf("GetHint failed: %v", err)
	}
	if !hint.Available || hint.First == nil || hint.Second == nil {
		t.Fatalf("Expected a hint, got %+v", hint)
	}
	// A and C pairs are removable, B is blocked
	if hint.AvailableMoves != 2 {
		t.Errorf("Expected 2 available moves, got %d", hint.AvailableMoves)
	}
	if hint.Stuck || hint.Solved {
		t.Errorf("Unexpected flags: %+v", hint)
	}

	result := selectPair(t, svc, id, *hint.First, *hint.Second)
	if result.Result != engine.MatchedAndRemoved {
		t.Errorf("Hinted pair was not removed: %s", result.Result)
	}
}

func TestGameService_GetMatchHistory(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	selectPair(t, svc, id, engine.Position{Row: 0, Col: 0}, engine.Position{Row: 1, Col: 0}) // not a pair
	selectPair(t, svc, id, engine.Position{Row: 1, Col: 0}, engine.Position{Row: 1, Col: 3}) // blocked
	selectPair(t, svc, id, engine.Position{Row: 1, Col: 1}, engine.Position{Row: 1, Col: 2}) // removed

	t.Run("defaults to newest first", func(t *testing.T) {
		resp, err := svc.GetMatchHistory(ctx, id, service.HistoryOptions{})
		if err != nil {
			t.Fatalf("GetMatchHistory failed: %v", err)
		}
		if resp.TotalMatches != 3 || len(resp.Matches) != 3 {
			t.Fatalf("Expected 3 matches, got %d/%d", len(resp.Matches), resp.TotalMatches)
		}
		if resp.Matches[0].Result != engine.MatchedAndRemoved {
			t.Errorf("Expected newest first, got %s", resp.Matches[0].Result)
		}
	})

	t.Run("ascending pages", func(t *testing.T) {
		resp, err := svc.GetMatchHistory(ctx, id, service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"})
		if err != nil {
			t.Fatalf("GetMatchHistory failed: %v", err)
		}
		if len(resp.Matches) != 2 || resp.Matches[0].Result != engine.NotAPair {
			t.Errorf("Unexpected first page: %+v", resp.Matches)
		}
		if !resp.HasNext || resp.HasPrevious || resp.TotalPages != 2 {
			t.Errorf("Unexpected pagination: %+v", resp)
		}

		resp, _ = svc.GetMatchHistory(ctx, id, service.HistoryOptions{Page: 2, Limit: 2, Order: "asc"})
		if len(resp.Matches) != 1 || resp.Matches[0].Result != engine.MatchedAndRemoved {
			t.Errorf("Unexpected second page: %+v", resp.Matches)
		}
	})

	t.Run("page past the end", func(t *testing.T) {
		resp, err := svc.GetMatchHistory(ctx, id, service.HistoryOptions{Page: 5, Limit: 2})
		if err != nil {
			t.Fatalf("GetMatchHistory failed: %v", err)
		}
		if resp.Matches == nil || len(resp.Matches) != 0 {
			t.Errorf("Expected empty non-nil page, got %v", resp.Matches)
		}
	})
}

func TestGameService_ConcurrentSelects(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := engine.Position{Row: i % 2, Col: (i / 2) % 4}
			svc.Select(ctx, id, p)
			svc.GetBoardState(ctx, id)
		}(i)
	}
	wg.Wait()

	state, err := svc.GetBoardState(ctx, id)
	if err != nil {
		t.Fatalf("GetBoardState failed: %v", err)
	}
	if state.Remaining%2 != 0 {
		t.Errorf("Expected an even number of tiles, got %d", state.Remaining)
	}
}

func TestGameService_Configs(t *testing.T) {
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	if err != nil || len(configs) != 1 {
		t.Fatalf("Expected 1 config, got %d (%v)", len(configs), err)
	}

	config, err := svc.LoadConfig(ctx, "test")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Rows != 2 || config.Cols != 4 {
		t.Errorf("Unexpected config: %+v", config)
	}
}
