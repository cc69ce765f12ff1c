// Package websocket pushes board updates for Mahjong Connect sessions.
//
// Architecture:
//
// A central Hub owns every connection. Register, unregister and broadcast
// requests arrive on channels and are handled by the Run loop; each client
// has a write pump and a read pump goroutine. Clients that fall behind are
// dropped rather than stalling the hub.
//
// Message Protocol:
//
// Clients connect with ?session=<id> and only receive messages for that
// session. Messages are JSON:
//
//	{"session_id": "ab12", "event": "state_update", "board_state": {...}, "timestamp": "..."}
//
// Events:
//   - connected: sent once to a new client, carries its client_id
//   - state_update: full BoardState after a selection or clear
//   - tiles_removed: the two emptied positions and the connecting path
//
// Incoming messages are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastToSession(sessionID, state)
package websocket
