// Package engine provides the core game logic for Mahjong Connect.
//
// The engine package implements:
//   - Paired board generation with an unbiased shuffle
//   - The two-pick selection state machine
//   - Path search limited to two turns through empty cells
//   - Hint and stuck detection on the live board
//
// Core Types:
//
// Board is the occupancy grid. MatchEngine owns one Board and the pending
// selection, implementing the Engine interface. BoardConfig describes how a
// board is generated and BoardState is the snapshot handed to presentation.
//
// Usage:
//
//	e, err := engine.NewEngine(engine.DefaultBoardConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	e.Select(engine.Position{Row: 0, Col: 0})
//	outcome, err := e.Select(engine.Position{Row: 2, Col: 3})
//	if outcome.Result == engine.MatchedAndRemoved {
//		// outcome.Removed and outcome.Path describe the removal
//	}
//
// Rules:
//
// Two tokens of the same identity are removed when a path of horizontal and
// vertical segments joins them, crossing only empty cells and bending at most
// twice. The path never leaves the board. The game is won when every cell is
// empty.
package engine
