package engine

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session owns the live state of one game: the deck, the revealed group in
// progress, the matched cells, the input lock and the move counter.
//
// A Session starts Idle. Start loads a deck and moves it to InProgress;
// matching every cell moves it to Complete. Start may be called again from
// any state and replaces the game entirely.
type Session struct {
	mu     sync.Mutex
	opts   Options
	clock  Clock
	scorer Scorer

	generation uint64
	version    uint64
	gameID     string
	deck       Deck
	revealed   []int
	matched    map[int]bool
	locked     bool
	moves      int
	timer      GameTimer
	score      *int

	resolveTimer Timer
	tickTimer    Timer
}

// NewSession returns an Idle session.
func NewSession(opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = WallClock()
	}
	if opts.PenaltyPerExtraMove < 0 {
		opts.PenaltyPerExtraMove = DefaultPenaltyPerExtraMove
	}
	return &Session{
		opts:    opts,
		clock:   opts.Clock,
		scorer:  Scorer{PenaltyPerExtraMove: opts.PenaltyPerExtraMove},
		matched: make(map[int]bool),
	}
}

// Start loads deck and begins a new game: nothing revealed, nothing matched,
// zero moves, unlocked, timer running. Any pending resolution or tick from a
// previous game is cancelled and can no longer affect this one.
func (s *Session) Start(deck Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimersLocked()
	s.generation++
	s.version++
	s.gameID = uuid.NewString()
	s.deck = Deck{
		Tokens:    slices.Clone(deck.Tokens),
		GridSize:  deck.GridSize,
		GroupSize: deck.GroupSize,
	}
	s.revealed = nil
	s.matched = make(map[int]bool, len(deck.Tokens))
	s.locked = false
	s.moves = 0
	s.score = nil
	s.timer.Start(s.clock.Now())
	s.scheduleTickLocked()
	return nil
}

// Close cancels outstanding callbacks and returns the session to Idle.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimersLocked()
	s.generation++
	s.version++
	s.gameID = ""
	s.deck = Deck{}
	s.revealed = nil
	s.matched = make(map[int]bool)
	s.locked = false
	s.moves = 0
	s.score = nil
	s.timer.Reset()
}

// Reveal flips the cell at index face up. Reveals while idle, complete or
// locked, and reveals of cells already face up or outside the deck, are
// ignored and reported through the outcome. Completing a group locks the
// session, counts one move and schedules its resolution.
func (s *Session) Reveal(index int) RevealOutcome {
	s.mu.Lock()
	outcome, resolveNow := s.revealLocked(index)
	if resolveNow {
		s.resolveLocked()
	}
	s.mu.Unlock()
	return outcome
}

func (s *Session) revealLocked(index int) (RevealOutcome, bool) {
	switch {
	case len(s.deck.Tokens) == 0:
		return RevealIgnoredIdle, false
	case s.completeLocked():
		return RevealIgnoredComplete, false
	case s.locked:
		return RevealIgnoredLocked, false
	case index < 0 || index >= len(s.deck.Tokens):
		return RevealIgnoredRange, false
	case s.matched[index]:
		return RevealIgnoredMatched, false
	case slices.Contains(s.revealed, index):
		return RevealIgnoredRevealed, false
	}

	s.revealed = append(s.revealed, index)
	s.version++
	if len(s.revealed) < s.deck.GroupSize {
		return RevealAccepted, false
	}

	s.locked = true
	s.moves++
	if s.opts.ResolveDelay <= 0 {
		return RevealGroupComplete, true
	}

	gen := s.generation
	s.resolveTimer = s.clock.AfterFunc(s.opts.ResolveDelay, func() {
		s.onResolve(gen)
	})
	return RevealGroupComplete, false
}

func (s *Session) onResolve(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || !s.locked {
		s.mu.Unlock()
		return
	}
	s.resolveTimer = nil
	ev := s.resolveLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(ev, snap)
}

// resolveLocked commits the revealed group when all its tokens are equal and
// flips it back otherwise, then unlocks.
func (s *Session) resolveLocked() Event {
	first := s.deck.Tokens[s.revealed[0]]
	same := true
	for _, idx := range s.revealed[1:] {
		if s.deck.Tokens[idx] != first {
			same = false
			break
		}
	}
	if same {
		for _, idx := range s.revealed {
			s.matched[idx] = true
		}
	}
	s.revealed = nil
	s.locked = false
	s.version++

	if !s.completeLocked() {
		return EventResolved
	}

	s.timer.Stop(s.clock.Now())
	score := s.scorer.Score(s.moves, len(s.deck.Tokens), s.deck.GroupSize)
	s.score = &score
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
	return EventCompleted
}

func (s *Session) scheduleTickLocked() {
	if s.opts.TickInterval <= 0 {
		return
	}
	gen := s.generation
	s.tickTimer = s.clock.AfterFunc(s.opts.TickInterval, func() {
		s.onTick(gen)
	})
}

func (s *Session) onTick(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.completeLocked() {
		s.mu.Unlock()
		return
	}
	s.scheduleTickLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(EventTick, snap)
}

func (s *Session) cancelTimersLocked() {
	if s.resolveTimer != nil {
		s.resolveTimer.Stop()
		s.resolveTimer = nil
	}
	if s.tickTimer != nil {
		s.tickTimer.Stop()
		s.tickTimer = nil
	}
}

func (s *Session) notify(ev Event, snap Snapshot) {
	if s.opts.OnChange != nil {
		s.opts.OnChange(ev, snap)
	}
}

func (s *Session) completeLocked() bool {
	return len(s.deck.Tokens) > 0 && len(s.matched) == len(s.deck.Tokens)
}

func (s *Session) stateLocked() State {
	switch {
	case len(s.deck.Tokens) == 0:
		return StateIdle
	case s.completeLocked():
		return StateComplete
	default:
		return StateInProgress
	}
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// IsComplete reports whether every cell of the deck is matched.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completeLocked()
}

// Locked reports whether a completed group is waiting for resolution.
func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Moves returns the number of completed group evaluations.
func (s *Session) Moves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moves
}

// Elapsed returns the time since Start, frozen once the game completes.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer.Elapsed(s.clock.Now())
}

// Score returns the final score once the game is complete.
func (s *Session) Score() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.score == nil {
		return 0, false
	}
	return *s.score, true
}

// Generation returns the current generation, bumped by every Start and Close.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Version returns the state version, bumped by every change a snapshot can
// show except the elapsed time.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// GameID returns the identifier assigned by the last Start.
func (s *Session) GameID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameID
}

// Deck returns a copy of the loaded deck, including hidden tokens.
func (s *Session) Deck() Deck {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.deck
	d.Tokens = slices.Clone(s.deck.Tokens)
	return d
}

// Snapshot returns a read-only view of the session.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	now := s.clock.Now()
	cfg := s.deck.Configuration()
	snap := Snapshot{
		GameID:     s.gameID,
		Generation: s.generation,
		Version:    s.version,
		State:      s.stateLocked(),
		GridSize:   s.deck.GridSize,
		GroupSize:  s.deck.GroupSize,
		Cells:      make([]CellView, len(s.deck.Tokens)),
		Revealed:   slices.Clone(s.revealed),
		Matched:    len(s.matched),
		DeckLength: len(s.deck.Tokens),
		Moves:      s.moves,
		IdealMoves: IdealMoves(len(s.deck.Tokens), s.deck.GroupSize),
		Locked:     s.locked,
		Elapsed:    s.timer.Elapsed(now),
	}
	if snap.Revealed == nil {
		snap.Revealed = []int{}
	}
	if snap.DeckLength > 0 {
		snap.UnusedCells = cfg.TotalCells() - snap.DeckLength
	}
	snap.ElapsedMs = snap.Elapsed.Milliseconds()

	for i, tok := range s.deck.Tokens {
		cell := CellView{Index: i, Visibility: Hidden}
		switch {
		case s.matched[i]:
			cell.Visibility = Matched
			cell.Token = tok
		case slices.Contains(s.revealed, i):
			cell.Visibility = Revealed
			cell.Token = tok
		}
		snap.Cells[i] = cell
	}

	if started := s.timer.StartedAt(); !started.IsZero() {
		snap.StartedAt = &started
	}
	if completed := s.timer.CompletedAt(); !completed.IsZero() {
		snap.CompletedAt = &completed
	}
	if s.score != nil {
		score := *s.score
		snap.Score = &score
	}
	return snap
}
