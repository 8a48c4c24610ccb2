// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, and the JSON answer is rendered as text an agent can read.
//
// Tools:
//   - create_session, list_sessions, delete_session
//   - game_state: board with hidden cells shown by index
//   - reveal: reveal one cell
//   - restart, set_configuration
//   - list_pools, game_instructions
//
// Boards are rendered one row per line. Hidden cells show their index,
// revealed cells [X], matched cells (X) and cells outside the deck --.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode: POST JSON-RPC messages to /mcp
//	response := client.GetMCPServer().HandleMessage(ctx, body)
package mcp
