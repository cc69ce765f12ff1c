package engine

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// recordingSource returns lo every time and remembers the ranges it was asked for
type recordingSource struct {
	calls [][2]int
}

func (r *recordingSource) IntRange(lo, hi int) int {
	r.calls = append(r.calls, [2]int{lo, hi})
	return lo
}

func TestGenerate_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		pool       []string
	}{
		{"zero rows", 0, 4, []string{"A"}},
		{"negative cols", 2, -1, []string{"A"}},
		{"odd cell count", 3, 3, []string{"A"}},
		{"empty pool", 2, 2, nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			board, err := Generate(test.rows, test.cols, test.pool, NewRandomSource(1))
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
			if board != nil {
				t.Error("Expected nil board on error")
			}
		})
	}
}

func TestGenerate_ParityInvariant(t *testing.T) {
	sizes := [][2]int{{1, 2}, {2, 2}, {2, 3}, {4, 4}, {6, 6}, {5, 8}, {10, 12}}
	pools := [][]string{
		{"A"},
		{"A", "B"},
		DefaultIdentities,
	}

	for _, size := range sizes {
		for _, pool := range pools {
			name := fmt.Sprintf("%dx%d/pool%d", size[0], size[1], len(pool))
			t.Run(name, func(t *testing.T) {
				board, err := Generate(size[0], size[1], pool, NewRandomSource(7))
				if err != nil {
					t.Fatalf("Generate failed: %v", err)
				}

				rows, cols := board.Dimensions()
				if rows != size[0] || cols != size[1] {
					t.Fatalf("Expected %dx%d, got %dx%d", size[0], size[1], rows, cols)
				}
				if board.Occupied() != rows*cols {
					t.Errorf("Expected %d occupied cells, got %d", rows*cols, board.Occupied())
				}
				for id, n := range board.IdentityCounts() {
					if n%2 != 0 {
						t.Errorf("Identity %q occupies %d cells", id, n)
					}
				}
			})
		}
	}
}

func TestGenerate_CyclicPoolDraw(t *testing.T) {
	board, err := Generate(2, 2, []string{"A", "B"}, NewRandomSource(3))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	counts := board.IdentityCounts()
	if counts["A"] != 2 || counts["B"] != 2 || len(counts) != 2 {
		t.Errorf("Expected exactly one pair of A and one of B, got %v", counts)
	}
}

func TestGenerate_PoolLargerThanPairs(t *testing.T) {
	pool := []string{"A", "B", "C", "D", "E", "F"}
	board, err := Generate(2, 2, pool, NewRandomSource(3))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	counts := board.IdentityCounts()
	if counts["A"] != 2 || counts["B"] != 2 || len(counts) != 2 {
		t.Errorf("Expected only the first two pool entries to be drawn, got %v", counts)
	}
}

func TestGenerate_RowMajorPlacement(t *testing.T) {
	// A source that always returns lo leaves the sequence unshuffled
	board, err := Generate(2, 3, []string{"A", "B", "C"}, &recordingSource{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	got := strings.Join(board.Rows(), "/")
	if got != "AAB/BCC" {
		t.Errorf("Expected AAB/BCC, got %s", got)
	}
}

func TestGenerate_SeedIsReproducible(t *testing.T) {
	a, err := Generate(6, 6, DefaultIdentities, NewRandomSource(99))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	b, err := Generate(6, 6, DefaultIdentities, NewRandomSource(99))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for r := 0; r < 6; r++ {
		for c := 0; c < 6; c++ {
			if a.Get(r, c) != b.Get(r, c) {
				t.Fatalf("Boards differ at (%d,%d)", r, c)
			}
		}
	}
}

func TestShuffle_RequestsShrinkingRanges(t *testing.T) {
	src := &recordingSource{}
	items := []int{0, 1, 2, 3, 4}
	Shuffle(items, src)

	if len(src.calls) != len(items) {
		t.Fatalf("Expected %d draws, got %d", len(items), len(src.calls))
	}
	for i, call := range src.calls {
		if call[0] != i || call[1] != len(items)-1 {
			t.Errorf("Draw %d: expected range [%d,%d], got [%d,%d]", i, i, len(items)-1, call[0], call[1])
		}
	}
}

func TestShuffle_PermutationsAreUniform(t *testing.T) {
	const trials = 24000
	src := NewRandomSource(2024)
	counts := make(map[string]int)

	for i := 0; i < trials; i++ {
		items := []int{0, 1, 2, 3}
		Shuffle(items, src)
		counts[fmt.Sprint(items)]++
	}

	if len(counts) != 24 {
		t.Fatalf("Expected all 24 permutations, saw %d", len(counts))
	}
	// expected 1000 each; allow a wide band so the test is not flaky
	for perm, n := range counts {
		if n < 800 || n > 1200 {
			t.Errorf("Permutation %s drawn %d times, expected about 1000", perm, n)
		}
	}
}

func TestShuffle_PositionNotCorrelatedWithIndex(t *testing.T) {
	const (
		trials = 12000
		n      = 6
	)
	src := NewRandomSource(11)
	// landed[i][p] counts how often the item that started at index i ended at position p
	var landed [n][n]int

	for trial := 0; trial < trials; trial++ {
		items := []int{0, 1, 2, 3, 4, 5}
		Shuffle(items, src)
		for p, item := range items {
			landed[item][p]++
		}
	}

	expected := trials / n
	for i := 0; i < n; i++ {
		for p := 0; p < n; p++ {
			if landed[i][p] < expected*8/10 || landed[i][p] > expected*12/10 {
				t.Errorf("Item %d landed at %d %d times, expected about %d", i, p, landed[i][p], expected)
			}
		}
	}
}

func TestRandomSource_IntRangeBounds(t *testing.T) {
	src := NewRandomSource(5)
	for i := 0; i < 1000; i++ {
		v := src.IntRange(3, 7)
		if v < 3 || v > 7 {
			t.Fatalf("IntRange(3,7) returned %d", v)
		}
	}
	if v := src.IntRange(4, 4); v != 4 {
		t.Errorf("IntRange(4,4) returned %d", v)
	}
}

func TestGenerateFromConfig(t *testing.T) {
	config := createValidConfig()
	board, err := GenerateFromConfig(config)
	if err != nil {
		t.Fatalf("GenerateFromConfig failed: %v", err)
	}
	if board.Occupied() != 16 {
		t.Errorf("Expected 16 tokens, got %d", board.Occupied())
	}

	config.Rows = 3
	config.Cols = 3
	if _, err := GenerateFromConfig(config); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}
