package autoplay

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
)

// Simulation describes a batch of games played on a manual clock.
type Simulation struct {
	Symbols []string
	Config  engine.Configuration
	Games   int

	// PenaltyPerExtraMove is passed to every session, so zero disables the
	// penalty. Negative uses the engine default.
	PenaltyPerExtraMove int

	// Builder deals the decks. Nil uses the randomly seeded package source.
	Builder *engine.DeckBuilder
}

// Summary aggregates the results of a simulation.
type Summary struct {
	Games      int     `json:"games"`
	IdealMoves int     `json:"ideal_moves"`
	MinMoves   int     `json:"min_moves"`
	MaxMoves   int     `json:"max_moves"`
	MeanMoves  float64 `json:"mean_moves"`
	MinScore   int     `json:"min_score"`
	MaxScore   int     `json:"max_score"`
	MeanScore  float64 `json:"mean_score"`
	Perfect    int     `json:"perfect"`

	// Scores counts games per score.
	Scores map[int]int `json:"scores"`

	totalMoves int
	totalScore int
}

// Add folds one game result into the summary.
func (s *Summary) Add(r Result) {
	if s.Games == 0 {
		s.MinMoves, s.MaxMoves = r.Moves, r.Moves
		s.MinScore, s.MaxScore = r.Score, r.Score
		s.IdealMoves = r.IdealMoves
	}
	s.Games++
	s.MinMoves = min(s.MinMoves, r.Moves)
	s.MaxMoves = max(s.MaxMoves, r.Moves)
	s.MinScore = min(s.MinScore, r.Score)
	s.MaxScore = max(s.MaxScore, r.Score)
	if r.Moves == r.IdealMoves {
		s.Perfect++
	}

	if s.Scores == nil {
		s.Scores = make(map[int]int)
	}
	s.Scores[r.Score]++

	s.totalMoves += r.Moves
	s.totalScore += r.Score
	s.MeanMoves = float64(s.totalMoves) / float64(s.Games)
	s.MeanScore = float64(s.totalScore) / float64(s.Games)
}

// Run plays sim.Games games with the autoplayer. Each game runs on its own
// manual clock so the observation delay costs no wall time.
func Run(ctx context.Context, sim Simulation) (*Summary, error) {
	builder := sim.Builder
	if builder == nil {
		builder = &engine.DeckBuilder{}
	}

	opts := engine.DefaultOptions()
	opts.TickInterval = 0
	if sim.PenaltyPerExtraMove >= 0 {
		opts.PenaltyPerExtraMove = sim.PenaltyPerExtraMove
	}

	summary := &Summary{}
	for game := 0; game < sim.Games; game++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		deck, err := builder.Build(sim.Symbols, sim.Config)
		if err != nil {
			return summary, err
		}

		clock := engine.NewManualClock(time.Unix(0, 0))
		opts.Clock = clock
		sess := engine.NewSession(opts)
		if err := sess.Start(deck); err != nil {
			return summary, err
		}

		res, err := Play(sess, func() { clock.Advance(opts.ResolveDelay) })
		sess.Close()
		if err != nil {
			return summary, fmt.Errorf("game %d: %w", game+1, err)
		}
		summary.Add(res)

		log.Debug().
			Int("game", game+1).
			Int("moves", res.Moves).
			Int("score", res.Score).
			Msg("simulated game")
	}

	return summary, nil
}
