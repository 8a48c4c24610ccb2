package autoplay

import (
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
)

var (
	ErrNotStarted = errors.New("game not started")
	ErrStalled    = errors.New("player made no progress")
)

// Board is the part of a game session the player needs. *engine.Session
// satisfies it.
type Board interface {
	Reveal(index int) engine.RevealOutcome
	Snapshot() engine.Snapshot
}

// Player remembers every token it has seen and only completes a group when
// it knows where all of its tokens are.
type Player struct {
	gameID string
	memory map[int]string
}

// NewPlayer returns a player with an empty memory.
func NewPlayer() *Player {
	return &Player{memory: make(map[int]string)}
}

// Observe records every token visible in snap. A snapshot from a different
// game clears the memory.
func (p *Player) Observe(snap engine.Snapshot) {
	if snap.GameID != p.gameID {
		p.gameID = snap.GameID
		p.memory = make(map[int]string)
	}
	for _, cell := range snap.Cells {
		if cell.Visibility != engine.Hidden && cell.Token != "" {
			p.memory[cell.Index] = cell.Token
		}
	}
}

// Known returns the number of cells whose token the player remembers.
func (p *Player) Known() int {
	return len(p.memory)
}

// Next picks the cell to reveal in snap. It returns -1 when nothing is left
// to reveal.
func (p *Player) Next(snap engine.Snapshot) int {
	open := make([]bool, snap.DeckLength)
	for i := range open {
		open[i] = true
	}
	for _, cell := range snap.Cells {
		if cell.Visibility == engine.Matched {
			open[cell.Index] = false
		}
	}
	for _, idx := range snap.Revealed {
		open[idx] = false
	}

	// Known open positions per token, in index order.
	known := make(map[string][]int)
	var order []string
	unknown := -1
	fallback := -1
	for i, ok := range open {
		if !ok {
			continue
		}
		if fallback < 0 {
			fallback = i
		}
		tok, seen := p.memory[i]
		if !seen {
			if unknown < 0 {
				unknown = i
			}
			continue
		}
		if _, listed := known[tok]; !listed {
			order = append(order, tok)
		}
		known[tok] = append(known[tok], i)
	}

	if len(snap.Revealed) == 0 {
		for _, tok := range order {
			if len(known[tok]) >= snap.GroupSize {
				return known[tok][0]
			}
		}
	} else if tok, ok := p.groupToken(snap.Revealed); ok {
		if len(snap.Revealed)+len(known[tok]) >= snap.GroupSize {
			return known[tok][0]
		}
	}

	// Either the group cannot match or nothing is certain: learn something.
	if unknown >= 0 {
		return unknown
	}
	return fallback
}

// groupToken returns the token shared by every revealed cell.
func (p *Player) groupToken(revealed []int) (string, bool) {
	tok, ok := p.memory[revealed[0]]
	if !ok {
		return "", false
	}
	for _, idx := range revealed[1:] {
		if p.memory[idx] != tok {
			return "", false
		}
	}
	return tok, true
}

// Result summarises one finished game.
type Result struct {
	Moves      int `json:"moves"`
	IdealMoves int `json:"ideal_moves"`
	Reveals    int `json:"reveals"`
	Waits      int `json:"waits"`
	Score      int `json:"score"`
}

// Play drives b to completion. wait is called whenever the board is locked
// and must let the pending resolution happen (advance a manual clock, sleep
// for the resolve delay). With a zero resolve delay wait is never called and
// may be nil.
func Play(b Board, wait func()) (Result, error) {
	p := NewPlayer()
	snap := b.Snapshot()
	if snap.State == engine.StateIdle {
		return Result{}, ErrNotStarted
	}

	var res Result
	limit := snap.DeckLength*snap.DeckLength + snap.DeckLength
	for !snap.Complete() {
		if res.Reveals > limit || res.Waits > limit {
			return res, fmt.Errorf("%w after %d reveals", ErrStalled, res.Reveals)
		}

		p.Observe(snap)
		if snap.Locked {
			if wait == nil {
				return res, fmt.Errorf("%w: board locked and no wait function", ErrStalled)
			}
			wait()
			res.Waits++
			snap = b.Snapshot()
			continue
		}

		idx := p.Next(snap)
		if idx < 0 {
			return res, fmt.Errorf("%w: no cell left to reveal", ErrStalled)
		}
		outcome := b.Reveal(idx)
		res.Reveals++
		if !outcome.Accepted() && outcome != engine.RevealIgnoredLocked {
			return res, fmt.Errorf("reveal %d ignored: %s", idx, outcome)
		}
		snap = b.Snapshot()
	}

	res.Moves = snap.Moves
	res.IdealMoves = snap.IdealMoves
	if snap.Score != nil {
		res.Score = *snap.Score
	}
	return res, nil
}
