// Package session provides session management for the tile matching game
// server.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the session manager that handles all session operations. Each
// hosted session (service.Session) owns one engine.Session together with the
// name of the pool its decks are drawn from and its current configuration.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Lookups are
// case-insensitive. Generated IDs use cryptographic randomness and are
// retried on collision.
//
// Lifecycle:
//
// Create returns an idle engine session; the service starts the first game
// once its deck is built. Delete, CleanupExpiredSessions and CloseAll close
// the engine sessions they remove, so no resolution timer or tick outlives
// its session. Sessions live in memory only and are lost on restart.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "emoji", engine.DefaultConfiguration(), engine.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	removed := manager.CleanupExpiredSessions(24 * time.Hour)
package session
