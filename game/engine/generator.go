package engine

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// RandomSource produces uniform integers over [lo, hi] inclusive
type RandomSource interface {
	IntRange(lo, hi int) int
}

type pcgSource struct {
	r *rand.Rand
}

// NewRandomSource returns a RandomSource seeded with seed. A zero seed uses the clock.
func NewRandomSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &pcgSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *pcgSource) IntRange(lo, hi int) int {
	return lo + s.r.IntN(hi-lo+1)
}

// Generate builds a freshly shuffled, fully occupied board. Pair i takes identity
// pool[i mod len(pool)] and contributes two tokens.
func Generate(rows, cols int, pool []string, rng RandomSource) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: rows and cols must be positive, got %dx%d", ErrInvalidConfiguration, rows, cols)
	}
	if (rows*cols)%2 != 0 {
		return nil, fmt.Errorf("%w: rows*cols must be even, got %d", ErrInvalidConfiguration, rows*cols)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: identity pool is empty", ErrInvalidConfiguration)
	}
	if rng == nil {
		rng = NewRandomSource(0)
	}

	pairCount := rows * cols / 2
	identities := make([]string, 0, rows*cols)
	for i := 0; i < pairCount; i++ {
		id := pool[i%len(pool)]
		identities = append(identities, id, id)
	}

	Shuffle(identities, rng)

	board, err := NewEmptyBoard(rows, cols)
	if err != nil {
		return nil, err
	}
	for i, id := range identities {
		board.cells[i] = Cell{Identity: id, Occupied: true}
	}
	return board, nil
}

// Shuffle permutes items uniformly in place: each index i swaps with a random index in [i, n-1]
func Shuffle[T any](items []T, rng RandomSource) {
	n := len(items)
	for i := 0; i < n; i++ {
		j := rng.IntRange(i, n-1)
		items[i], items[j] = items[j], items[i]
	}
}

// GenerateFromConfig validates config and generates a board using its seed
func GenerateFromConfig(config *BoardConfig) (*Board, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}
	return Generate(config.Rows, config.Cols, config.Identities, NewRandomSource(config.Seed))
}
