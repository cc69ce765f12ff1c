// Package api provides the HTTP REST API for Mahjong Connect.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session, body {"config_id": "classic"} (optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current board snapshot
//   - POST /api/sessions/{id}/select - Pick a tile, body {"row": 0, "col": 3}
//   - POST /api/sessions/{id}/clear - Drop the pending pick
//   - GET /api/sessions/{id}/hint - One removable pair
//   - GET /api/sessions/{id}/history - Evaluated pairs (?page&limit&order)
//
// Configuration:
//   - GET /api/configs - List board presets
//   - GET /api/configs/{name} - Get one preset
//
// Other:
//   - GET /ws?session={id} - WebSocket push of board updates
//   - GET /health - Liveness probe
//
// Select Response:
//
//	{
//	  "result": "matched_and_removed",
//	  "removed": [{"row": 0, "col": 0}, {"row": 2, "col": 3}],
//	  "path": [{"row": 0, "col": 0}, {"row": 0, "col": 3}, {"row": 2, "col": 3}],
//	  "message": "Removed a pair of east.",
//	  "board_state": {...}
//	}
//
// Error Handling:
//
// Errors are returned as {"error": "message"}:
//   - 400 malformed body or invalid preset
//   - 404 unknown session or preset
//   - 409 the tile is already the pending pick
//   - 422 the cell is empty or off the board
package api
