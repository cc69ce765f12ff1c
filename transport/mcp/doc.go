// Package mcp exposes Mahjong Connect to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, so agents and browsers share the same sessions.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - board_state: the board with a coordinate ruler and a tile legend
//   - select_tile: pick a tile by row and col
//   - clear_selection: drop the pending pick
//   - hint: one removable pair
//   - match_history: evaluated pairs with pagination
//   - list_configs: board presets
//   - game_instructions: the rules
//
// Boards are drawn one rune per cell. Identities are mapped onto single
// letters by Board.Legend and the legend is printed under the board.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
