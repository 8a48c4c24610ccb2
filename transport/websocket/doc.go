// Package websocket pushes game changes to browser clients.
//
// A central Hub owns every connection. Clients join a session by passing its
// ID when they connect (/ws?session=abc1) and from then on receive one JSON
// Message per frame:
//
//	{"session_id": "abc1", "event": "resolved", "snapshot": {...}}
//
// Events are state_update after a request changed the game, and resolved,
// completed or tick when the engine changed it on its own. Only snapshots
// are sent, so hidden tokens never reach a client.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(sessions, pools, service.Options{Notifier: hub})
//
// The hub's session map is only touched by the Run goroutine. Broadcast,
// Notify and friends enqueue without blocking, so they are safe to call from
// request handlers and engine timer callbacks alike.
package websocket
