package engine

import (
	"errors"
	"testing"
)

func createValidConfig() *BoardConfig {
	return &BoardConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Rows:        4,
		Cols:        4,
		Identities:  []string{"A", "B", "C", "D"},
		Seed:        42,
	}
}

func TestValidateBoardConfig_ValidConfig(t *testing.T) {
	if err := ValidateBoardConfig(createValidConfig()); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}
}

func TestValidateBoardConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *BoardConfig)
	}{
		{"missing name", func(c *BoardConfig) { c.Name = "" }},
		{"zero rows", func(c *BoardConfig) { c.Rows = 0 }},
		{"negative cols", func(c *BoardConfig) { c.Cols = -2 }},
		{"too many rows", func(c *BoardConfig) { c.Rows = MaxBoardSide + 2 }},
		{"odd cell count", func(c *BoardConfig) { c.Rows, c.Cols = 3, 3 }},
		{"empty pool", func(c *BoardConfig) { c.Identities = nil }},
		{"blank identity", func(c *BoardConfig) { c.Identities = []string{"A", " "} }},
		{"duplicate identity", func(c *BoardConfig) { c.Identities = []string{"A", "B", "A"} }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := createValidConfig()
			test.mutate(config)
			err := ValidateBoardConfig(config)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

func TestValidateBoardConfig_Nil(t *testing.T) {
	if err := ValidateBoardConfig(nil); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration for nil config, got %v", err)
	}
}

func TestDefaultBoardConfig(t *testing.T) {
	config := DefaultBoardConfig()
	if err := ValidateBoardConfig(config); err != nil {
		t.Fatalf("Default config should be valid: %v", err)
	}
	if config.Rows != DefaultRows || config.Cols != DefaultCols {
		t.Errorf("Expected %dx%d, got %dx%d", DefaultRows, DefaultCols, config.Rows, config.Cols)
	}

	// Mutating the returned pool must not leak into the package default
	config.Identities[0] = "changed"
	if DefaultIdentities[0] == "changed" {
		t.Error("DefaultBoardConfig shares its identity slice with DefaultIdentities")
	}
}
