// Command bot plays tile match sessions against a running server through
// the REST API. It remembers every token it sees and polls the session
// while a completed group is on display.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/tilematch/game/autoplay"
	"github.com/wricardo/mcp-training/tilematch/game/engine"
	"github.com/wricardo/mcp-training/tilematch/game/service"
)

var errStuck = errors.New("bot made no progress")

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	poolName := flag.String("pool", "", "Symbol pool (default: server default)")
	gridSize := flag.Int("grid", 0, "Grid side length (default: server default)")
	groupSize := flag.Int("group", 0, "Tokens per group (default: server default)")
	continueSession := flag.String("continue", "", "Play an existing session by ID")
	games := flag.Int("games", 1, "Games to play; the session is restarted between games")
	poll := flag.Duration("poll", 100*time.Millisecond, "Poll interval while the board is locked")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Str("url", *serverURL).Msg("Connecting to game server")
	client := NewClient(*serverURL)

	var snap *engine.Snapshot
	var err error
	if *continueSession != "" {
		client.Use(*continueSession)
		snap, err = client.GetState(ctx)
	} else {
		snap, err = client.CreateSession(ctx, service.SessionOptions{
			Pool:      *poolName,
			GridSize:  *gridSize,
			GroupSize: *groupSize,
		})
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start")
	}
	log.Info().
		Str("session", client.SessionID()).
		Int("grid", snap.GridSize).
		Int("group", snap.GroupSize).
		Msg("Session ready")

	var summary autoplay.Summary
	for game := 1; game <= *games; game++ {
		if game > 1 || snap.Complete() {
			if snap, err = client.Restart(ctx); err != nil {
				log.Fatal().Err(err).Msg("Failed to restart")
			}
		}

		res, err := playGame(ctx, client, *snap, *poll)
		if err != nil {
			log.Fatal().Err(err).Int("game", game).Msg("Game failed")
		}
		summary.Add(res)
		log.Info().
			Int("game", game).
			Int("moves", res.Moves).
			Int("ideal", res.IdealMoves).
			Int("score", res.Score).
			Msg("🎉 Game complete")
	}

	fmt.Printf("Session %s: %d games, mean score %.1f, perfect %d\n",
		client.SessionID(), summary.Games, summary.MeanScore, summary.Perfect)
}

// playGame plays the session from snap until it is complete.
func playGame(ctx context.Context, c *Client, snap engine.Snapshot, poll time.Duration) (autoplay.Result, error) {
	player := autoplay.NewPlayer()
	limit := snap.DeckLength*snap.DeckLength + snap.DeckLength

	var res autoplay.Result
	for !snap.Complete() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if snap.State != engine.StateInProgress {
			return res, fmt.Errorf("session is %s", snap.State)
		}
		player.Observe(snap)

		if snap.Locked {
			res.Waits++
			if err := sleep(ctx, poll); err != nil {
				return res, err
			}
			next, err := c.GetState(ctx)
			if err != nil {
				return res, err
			}
			snap = *next
			continue
		}

		if res.Reveals >= limit {
			return res, errStuck
		}
		idx := player.Next(snap)
		if idx < 0 {
			return res, errStuck
		}

		result, err := c.Reveal(ctx, idx)
		if err != nil {
			return res, err
		}
		res.Reveals++
		if !result.Accepted && result.Outcome != engine.RevealIgnoredLocked {
			return res, fmt.Errorf("reveal %d ignored: %s", idx, result.Reason)
		}
		log.Debug().Int("index", idx).Str("outcome", string(result.Outcome)).Int("moves", result.Snapshot.Moves).Msg("reveal")
		snap = *result.Snapshot
	}

	res.Moves = snap.Moves
	res.IdealMoves = snap.IdealMoves
	if snap.Score != nil {
		res.Score = *snap.Score
	}
	return res, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
