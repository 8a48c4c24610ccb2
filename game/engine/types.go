package engine

import "time"

// State is the session's coarse lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateInProgress State = "in_progress"
	StateComplete   State = "complete"
)

// Visibility is the face of a single cell.
type Visibility string

const (
	Hidden   Visibility = "hidden"
	Revealed Visibility = "revealed"
	Matched  Visibility = "matched"
)

// Event names the transition an OnChange notification reports.
type Event string

const (
	EventResolved  Event = "resolved"
	EventCompleted Event = "completed"
	EventTick      Event = "tick"
)

// RevealOutcome tells a caller what happened to a reveal intent. Rejected
// reveals are not errors; they leave the session untouched.
type RevealOutcome string

const (
	RevealAccepted        RevealOutcome = "accepted"
	RevealGroupComplete   RevealOutcome = "group_complete"
	RevealIgnoredIdle     RevealOutcome = "idle"
	RevealIgnoredComplete RevealOutcome = "complete"
	RevealIgnoredLocked   RevealOutcome = "locked"
	RevealIgnoredRange    RevealOutcome = "out_of_range"
	RevealIgnoredRevealed RevealOutcome = "already_revealed"
	RevealIgnoredMatched  RevealOutcome = "already_matched"
)

// Accepted reports whether the reveal changed the session.
func (o RevealOutcome) Accepted() bool {
	return o == RevealAccepted || o == RevealGroupComplete
}

// CellView is the client-facing view of one cell. Token is only set for
// revealed and matched cells.
type CellView struct {
	Index      int        `json:"index"`
	Visibility Visibility `json:"visibility"`
	Token      string     `json:"token,omitempty"`
}

// Snapshot is a read-only copy of the session state for presentation.
// Version orders snapshots of one session; a push with a lower version than
// one already shown is stale.
type Snapshot struct {
	GameID      string        `json:"game_id,omitempty"`
	Generation  uint64        `json:"generation"`
	Version     uint64        `json:"version"`
	State       State         `json:"state"`
	GridSize    int           `json:"grid_size"`
	GroupSize   int           `json:"group_size"`
	Cells       []CellView    `json:"cells"`
	Revealed    []int         `json:"revealed"`
	Matched     int           `json:"matched"`
	DeckLength  int           `json:"deck_length"`
	UnusedCells int           `json:"unused_cells"`
	Moves       int           `json:"moves"`
	IdealMoves  int           `json:"ideal_moves"`
	Locked      bool          `json:"locked"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Elapsed     time.Duration `json:"-"`
	ElapsedMs   int64         `json:"elapsed_ms"`
	Score       *int          `json:"score,omitempty"`
}

// Complete reports whether the snapshot was taken after the last match.
func (s Snapshot) Complete() bool {
	return s.State == StateComplete
}
