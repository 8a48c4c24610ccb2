// Package engine provides the core game logic for Tile Match, a single-player
// memory game.
//
// The engine package implements the game mechanics including:
//   - Shuffling and deck construction from an externally supplied symbol pool
//   - Grid sizing with group sizes larger than pairs (triples, quads...)
//   - The reveal / resolve state machine with an observation delay
//   - Elapsed time tracking and efficiency scoring
//
// Core Types:
//
// Configuration holds the grid side length and the group size. Deck is the
// shuffled token sequence built by BuildDeck. Session owns the live game
// state and the reveal protocol; Snapshot is its read-only view for
// presentation layers.
//
// Usage:
//
//	deck, err := engine.BuildDeck(pool, engine.Configuration{GridSize: 4, GroupSize: 2})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess := engine.NewSession(engine.DefaultOptions())
//	sess.Start(deck)
//
//	// Flip two tiles; the pair is resolved after the observation delay
//	sess.Reveal(0)
//	sess.Reveal(5)
//	snap := sess.Snapshot()
//
// Game Rules:
//
// The grid holds GridSize² cells, but only the largest multiple of GroupSize
// is used; remainder cells stay empty. The player reveals GroupSize tiles at
// a time. When the group is complete the session locks, counts one move and,
// after the observation delay, either keeps the tiles face up (all tokens
// equal) or flips them back. The game is complete when every used cell is
// matched; the score is 100 minus a penalty per move above the ideal of one
// move per group, clamped to [0, 100].
//
// Concurrency:
//
// Session is safe for concurrent use. Delayed resolutions and timer ticks run
// on timer goroutines; each is tagged with the session generation it was
// scheduled under and does nothing once Start or Close has moved the session
// to a newer generation.
package engine
