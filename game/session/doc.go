// Package session provides in-memory session management for Mahjong Connect.
//
// Manager stores one service.Session per game. Each session owns a
// MatchEngine and the board it plays on; nothing is written to disk and a
// restart starts from an empty store.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs drawn from crypto/rand. Lookups are
// case-insensitive and a colliding ID is redrawn.
//
// Concurrency:
//
// The manager map is guarded by an RWMutex. Engine access is serialised per
// session by service.Session.Do, so two requests against the same board never
// run Select at the same time while different sessions proceed in parallel.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Drop sessions idle for a day
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
package session
