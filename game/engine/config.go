package engine

import (
	"fmt"
	"strings"
)

// ValidateBoardConfig validates a board configuration before generation
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfiguration)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfiguration)
	}

	if config.Rows < MinBoardSide || config.Rows > MaxBoardSide {
		return fmt.Errorf("%w: rows must be between %d and %d, got %d", ErrInvalidConfiguration, MinBoardSide, MaxBoardSide, config.Rows)
	}
	if config.Cols < MinBoardSide || config.Cols > MaxBoardSide {
		return fmt.Errorf("%w: cols must be between %d and %d, got %d", ErrInvalidConfiguration, MinBoardSide, MaxBoardSide, config.Cols)
	}
	if (config.Rows*config.Cols)%2 != 0 {
		return fmt.Errorf("%w: rows*cols must be even, got %dx%d", ErrInvalidConfiguration, config.Rows, config.Cols)
	}

	if len(config.Identities) == 0 {
		return fmt.Errorf("%w: identities must not be empty", ErrInvalidConfiguration)
	}
	seen := make(map[string]bool, len(config.Identities))
	for i, id := range config.Identities {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: identity %d is blank", ErrInvalidConfiguration, i)
		}
		if seen[id] {
			return fmt.Errorf("%w: identity %q is listed twice", ErrInvalidConfiguration, id)
		}
		seen[id] = true
	}

	return nil
}

// DefaultIdentities is the built-in identity pool: the classic suits plus honours
var DefaultIdentities = []string{
	"bamboo-1", "bamboo-2", "bamboo-3", "bamboo-4", "bamboo-5", "bamboo-6", "bamboo-7", "bamboo-8", "bamboo-9",
	"circle-1", "circle-2", "circle-3", "circle-4", "circle-5", "circle-6", "circle-7", "circle-8", "circle-9",
	"east", "south", "west", "north",
}

// DefaultBoardConfig returns the 6x6 classic layout used when no preset is available
func DefaultBoardConfig() *BoardConfig {
	identities := make([]string, len(DefaultIdentities))
	copy(identities, DefaultIdentities)
	return &BoardConfig{
		Name:        "classic",
		Description: "6x6 board with 18 pairs drawn from the classic suits",
		Rows:        DefaultRows,
		Cols:        DefaultCols,
		Identities:  identities,
	}
}
