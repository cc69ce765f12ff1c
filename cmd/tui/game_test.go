package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/mahjong-connect/game/engine"
)

type recordingSound struct {
	matches, misses int
}

func (s *recordingSound) Match() { s.matches++ }
func (s *recordingSound) Miss()  { s.misses++ }
func (s *recordingSound) Close() {}

func newTestGame(t *testing.T, rows ...string) (*Game, *recordingSound, tcell.SimulationScreen) {
	t.Helper()
	board, err := engine.BoardFromRows(rows)
	if err != nil {
		t.Fatalf("BoardFromRows failed: %v", err)
	}
	r, c := board.Dimensions()
	cfg := &engine.BoardConfig{Name: "fixture", Rows: r, Cols: c, Identities: []string{"A"}}
	eng, err := engine.NewMatchEngine(board, cfg)
	if err != nil {
		t.Fatalf("NewMatchEngine failed: %v", err)
	}

	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	sound := &recordingSound{}
	return NewGame(screen, eng, sound), sound, screen
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func press(t *testing.T, g *Game, events ...*tcell.EventKey) {
	t.Helper()
	for _, ev := range events {
		if !g.handleKey(ev) {
			t.Fatalf("Game quit on %v", ev.Name())
		}
	}
}

// screenLine returns the runes of row y
func screenLine(screen tcell.SimulationScreen, y int) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		runes := cells[y*width+x].Runes
		if len(runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(runes[0])
	}
	return strings.TrimRight(b.String(), " ")
}

func TestCursorWraps(t *testing.T) {
	g, _, _ := newTestGame(t, "AB", "BA")

	press(t, g, key(tcell.KeyUp))
	if g.cursor != (engine.Position{Row: 1, Col: 0}) {
		t.Errorf("Expected cursor to wrap to the last row, got %v", g.cursor)
	}
	press(t, g, runeKey('h'))
	if g.cursor != (engine.Position{Row: 1, Col: 1}) {
		t.Errorf("Expected cursor to wrap to the last col, got %v", g.cursor)
	}
	press(t, g, runeKey('j'), runeKey('l'))
	if g.cursor != (engine.Position{}) {
		t.Errorf("Expected cursor back at origin, got %v", g.cursor)
	}
}

func TestSelectAndRemovePair(t *testing.T) {
	g, sound, _ := newTestGame(t, "AB", "AB")

	press(t, g, runeKey(' '))
	if sel, ok := g.eng.Selected(); !ok || sel != (engine.Position{}) {
		t.Fatalf("Expected (0,0) selected, got %v %v", sel, ok)
	}

	press(t, g, key(tcell.KeyDown), key(tcell.KeyEnter))
	if sound.matches != 1 {
		t.Errorf("Expected a match sound, got %d", sound.matches)
	}
	if g.eng.RemovedPairs() != 1 {
		t.Errorf("Expected 1 pair removed, got %d", g.eng.RemovedPairs())
	}
	if len(g.path) == 0 {
		t.Error("Expected the connecting path to be shown")
	}
}

func TestSelectOutcomesPlayMiss(t *testing.T) {
	g, sound, _ := newTestGame(t, "AB", "BA")

	// A then B: not a pair
	press(t, g, runeKey(' '), runeKey('l'), runeKey(' '))
	if g.status != "Not a pair" {
		t.Errorf("Unexpected status %q", g.status)
	}

	// A at (0,0) and (1,1) are walled in by the Bs
	press(t, g, runeKey('h'), runeKey(' '), runeKey('j'), runeKey('l'), runeKey(' '))
	if !strings.Contains(g.status, "no path") {
		t.Errorf("Unexpected status %q", g.status)
	}
	if sound.misses != 2 {
		t.Errorf("Expected 2 miss sounds, got %d", sound.misses)
	}
}

func TestSelectEmptyAndDuplicate(t *testing.T) {
	g, sound, _ := newTestGame(t, "A.A")

	press(t, g, runeKey('l'), runeKey(' '))
	if g.status != "That cell is empty" || sound.misses != 1 {
		t.Errorf("Unexpected status %q misses %d", g.status, sound.misses)
	}

	press(t, g, runeKey('l'), runeKey(' '), runeKey(' '))
	if !strings.Contains(g.status, "Already selected") {
		t.Errorf("Unexpected status %q", g.status)
	}

	press(t, g, runeKey('c'))
	if _, ok := g.eng.Selected(); ok {
		t.Error("Expected selection to be cleared")
	}
}

func TestHintAndSolve(t *testing.T) {
	g, _, _ := newTestGame(t, "ABBA")

	press(t, g, runeKey('?'))
	want := []engine.Position{{Row: 0, Col: 1}, {Row: 0, Col: 2}}
	if !reflect.DeepEqual(g.hint, want) {
		t.Fatalf("Expected hint %v, got %v", want, g.hint)
	}

	// play the hinted pair then the outer As
	press(t, g, runeKey('l'), runeKey(' '), runeKey('l'), runeKey(' '))
	press(t, g, runeKey('h'), runeKey('h'), runeKey(' '), key(tcell.KeyLeft), runeKey(' '))
	if !g.eng.IsSolved() {
		t.Fatalf("Expected solved board, status %q", g.status)
	}
	if !strings.Contains(g.status, "Solved") {
		t.Errorf("Unexpected status %q", g.status)
	}

	press(t, g, runeKey('?'))
	if g.hint != nil {
		t.Error("Expected no hint on a solved board")
	}
}

func TestQuitKeys(t *testing.T) {
	g, _, _ := newTestGame(t, "AA")

	if g.handleKey(runeKey('q')) {
		t.Error("Expected q to quit")
	}
	if g.handleKey(key(tcell.KeyEscape)) {
		t.Error("Expected Escape to quit")
	}
}

func TestNewBoard(t *testing.T) {
	g, _, _ := newTestGame(t, "AA")
	g.config = &engine.BoardConfig{Name: "fresh", Rows: 2, Cols: 2, Identities: []string{"east"}, Seed: 5}

	press(t, g, runeKey(' '), runeKey('n'))

	rows, cols := g.eng.Dimensions()
	if rows != 2 || cols != 2 {
		t.Errorf("Expected a 2x2 board, got %dx%d", rows, cols)
	}
	if _, ok := g.eng.Selected(); ok {
		t.Error("Expected no selection on a new board")
	}
	if g.legend["east"] != 'A' {
		t.Errorf("Expected legend rebuilt for the new board, got %v", g.legend)
	}
}

func TestNewBoardIgnoresPresetSeed(t *testing.T) {
	seeded := engine.DefaultBoardConfig()
	seeded.Seed = 42

	eng, err := engine.NewEngine(seeded)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	g := NewGame(screen, eng, &recordingSound{})
	first := g.eng.Board().Rows()

	press(t, g, runeKey('n'))

	if reflect.DeepEqual(g.eng.Board().Rows(), first) {
		t.Error("Expected n to deal a different board than the seeded one")
	}
	if g.config.Seed != 42 {
		t.Errorf("Expected the preset seed to be kept, got %d", g.config.Seed)
	}
}

func TestPathCells(t *testing.T) {
	path := []engine.Position{{Row: 0, Col: 0}, {Row: 0, Col: 2}, {Row: 2, Col: 2}}
	want := []engine.Position{{Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 1, Col: 2}}

	if got := pathCells(path); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if got := pathCells(path[:1]); got != nil {
		t.Errorf("Expected no cells for a single waypoint, got %v", got)
	}
}

func TestDraw(t *testing.T) {
	g, _, screen := newTestGame(t, "A.B", "B.A")

	g.draw()

	if line := screenLine(screen, 0); line != "Mahjong Connect - fixture" {
		t.Errorf("Unexpected title %q", line)
	}
	if line := screenLine(screen, originY-1); line != "    0 1 2" {
		t.Errorf("Unexpected column ruler %q", line)
	}
	if line := screenLine(screen, originY); !strings.HasPrefix(line, " 0  A . B   A A") {
		t.Errorf("Unexpected first row %q", line)
	}
	if line := screenLine(screen, originY+1); !strings.HasPrefix(line, " 1  B . A   B B") {
		t.Errorf("Unexpected second row %q", line)
	}
	if line := screenLine(screen, originY+3); line != "Tiles left: 4  Pairs removed: 0" {
		t.Errorf("Unexpected info line %q", line)
	}
}

func TestLoadPreset(t *testing.T) {
	dir := t.TempDir()
	preset := `{"name": "Tiny", "rows": 2, "cols": 2, "identities": ["east"]}`
	if err := os.WriteFile(filepath.Join(dir, "tiny.json"), []byte(preset), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadPreset(dir, "tiny")
	if err != nil || cfg.Name != "Tiny" {
		t.Fatalf("Expected Tiny preset, got %+v %v", cfg, err)
	}

	if _, err := loadPreset(dir, "missing"); err == nil {
		t.Error("Expected error for a missing preset")
	}

	cfg, err = loadPreset("/non/existent/path", "")
	if err != nil || cfg.Rows != engine.DefaultRows {
		t.Errorf("Expected built-in board, got %+v %v", cfg, err)
	}
	if _, err := loadPreset("/non/existent/path", "tiny"); err == nil {
		t.Error("Expected error for a named preset without a directory")
	}
}
