// Package service provides the business logic layer for the tile matching
// game server.
//
// The service package implements:
//   - Multi-session game management
//   - Deck building from named symbol pools
//   - Reveal intents, restarts and configuration changes
//   - Forwarding of delayed engine changes to transports
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// PoolCatalog supplies the symbol pools decks are drawn from.
// Notifier receives resolutions, completions and timer ticks that happen
// outside any request so that push transports can forward them.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each hosted session owns one engine session. Restarting or
// reconfiguring a session starts a new game on that engine session, which
// invalidates any resolution still pending from the previous game.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	catalog, _ := pool.NewCatalog("pools")
//	gameService := service.NewGameService(sessionMgr, catalog, service.Options{
//		Engine:   engine.DefaultOptions(),
//		Notifier: hub,
//	})
//
//	info, err := gameService.CreateSession(ctx, service.SessionOptions{Pool: "emoji"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Reveal(ctx, info.ID, 3)
//
// Errors:
//
// Unknown sessions and pools wrap ErrSessionNotFound and ErrPoolNotFound.
// Pool names that cannot name a pool file wrap ErrInvalidPoolName.
// Configurations that cannot produce a deck return the engine's
// *engine.ConfigurationError. Ignored reveals are not errors; they come back
// as a RevealResult with Accepted false and a Reason.
package service
