// Package api provides the HTTP REST API for hosted tile-matching games.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session {pool, grid_size, group_size}, all optional
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session with its snapshot
//   - DELETE /api/sessions/{id} - Delete a session and stop its game
//
// Game:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - POST /api/sessions/{id}/reveal - Reveal a cell {index}
//   - POST /api/sessions/{id}/restart - Deal a new deck with the same configuration
//   - PUT /api/sessions/{id}/config - Change grid and group size {grid_size, group_size}
//
// Pools:
//   - GET /api/pools - List symbol pools with their capacity
//   - GET /api/pools/{name} - Get one pool's symbols
//
// Other:
//   - GET /api/health - Liveness
//   - GET /ws?session={id} - Upgrade to a websocket subscribed to the session
//
// Ignored reveals (locked board, matched cell, out of range and so on) are
// answered with 200 and "accepted": false plus a reason. Errors are returned
// as JSON:
//
//	{"error": "error message"}
//
// with 400 for malformed bodies, 404 for unknown sessions or pools, 422 for
// configurations the pool cannot fill and 500 otherwise.
//
// Every accepted mutation is pushed to websocket subscribers as a
// state_update message carrying the new snapshot.
package api
