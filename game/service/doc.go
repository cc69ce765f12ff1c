// Package service provides the business logic layer for Mahjong Connect.
//
// The service package implements:
//   - Multi-session game management
//   - Tile selection and outcome reporting
//   - Hints and match history
//   - Board preset discovery
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads board presets.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns one MatchEngine, and every engine access
// goes through Session.Do so concurrent requests for the same session are
// serialised.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameService.Select(ctx, info.ID, engine.Position{Row: 0, Col: 0})
//	result, err := gameService.Select(ctx, info.ID, engine.Position{Row: 0, Col: 3})
package service
