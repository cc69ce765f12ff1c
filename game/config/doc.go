// Package config provides board preset management for Mahjong Connect.
//
// The config package handles:
//   - Loading presets from JSON and HCL files
//   - Validation through engine.ValidateBoardConfig
//   - Default preset selection
//   - Preset discovery and listing
//
// Preset Format:
//
// A preset names a board size and the identity pool tokens are drawn from.
// JSON and HCL carry the same fields:
//
//	name        = "Classic"
//	description = "6x6 board with the full tile set"
//	rows        = 6
//	cols        = 6
//	identities  = ["bamboo-1", "bamboo-2", "east", "west"]
//	seed        = 42 # optional, fixes the layout
//
// The preset ID is the filename without its extension. When both
// classic.json and classic.hcl exist, the JSON file wins.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	boardConfig, err := manager.LoadConfig("classic")
//	presets, err := manager.ListConfigs()
//
// When the directory holds no valid preset, GetDefault returns the built-in
// 6x6 classic board.
package config
