package engine

import "time"

// GameTimer tracks elapsed wall-clock time from game start until completion.
// It is pull based: callers ask for Elapsed whenever they render.
type GameTimer struct {
	startedAt   time.Time
	completedAt time.Time
}

// Start resets the timer and starts it at now.
func (t *GameTimer) Start(now time.Time) {
	t.startedAt = now
	t.completedAt = time.Time{}
}

// Stop freezes the timer at now. Stopping a stopped or never started timer
// does nothing.
func (t *GameTimer) Stop(now time.Time) {
	if t.startedAt.IsZero() || !t.completedAt.IsZero() {
		return
	}
	t.completedAt = now
}

// Reset clears the timer back to its never-started state.
func (t *GameTimer) Reset() {
	*t = GameTimer{}
}

// Running reports whether the timer was started and not yet stopped.
func (t *GameTimer) Running() bool {
	return !t.startedAt.IsZero() && t.completedAt.IsZero()
}

// StartedAt returns the start time, zero if never started.
func (t *GameTimer) StartedAt() time.Time {
	return t.startedAt
}

// CompletedAt returns the stop time, zero while running.
func (t *GameTimer) CompletedAt() time.Time {
	return t.completedAt
}

// Elapsed returns now - start while running and the frozen duration once
// stopped.
func (t *GameTimer) Elapsed(now time.Time) time.Duration {
	if t.startedAt.IsZero() {
		return 0
	}
	end := now
	if !t.completedAt.IsZero() {
		end = t.completedAt
	}
	if end.Before(t.startedAt) {
		return 0
	}
	return end.Sub(t.startedAt)
}
