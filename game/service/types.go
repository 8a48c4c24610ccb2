package service

import (
	"time"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
)

// Event names carried by notifications to transports.
const (
	EventStateUpdate = "state_update"
	EventTick        = "tick"
	EventResolved    = "resolved"
	EventCompleted   = "completed"
)

// SessionOptions selects the pool and configuration of a new session. Zero
// fields fall back to the catalog default pool and the default configuration.
type SessionOptions struct {
	Pool      string `json:"pool,omitempty"`
	GridSize  int    `json:"grid_size,omitempty"`
	GroupSize int    `json:"group_size,omitempty"`
}

// Configuration returns the engine configuration with defaults applied.
func (o SessionOptions) Configuration() engine.Configuration {
	cfg := engine.DefaultConfiguration()
	if o.GridSize != 0 {
		cfg.GridSize = o.GridSize
	}
	if o.GroupSize != 0 {
		cfg.GroupSize = o.GroupSize
	}
	return cfg
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string               `json:"id"`
	Pool           string               `json:"pool"`
	Configuration  engine.Configuration `json:"configuration"`
	CreatedAt      time.Time            `json:"created_at"`
	LastAccessedAt time.Time            `json:"last_accessed_at"`
	Snapshot       *engine.Snapshot     `json:"snapshot"`
}

// RevealResult contains the result of a reveal intent. Ignored reveals are
// reported with Accepted false and a machine readable Reason.
type RevealResult struct {
	Accepted          bool                 `json:"accepted"`
	Outcome           engine.RevealOutcome `json:"outcome"`
	Reason            string               `json:"reason,omitempty"`
	ResolutionPending bool                 `json:"resolution_pending"`
	Snapshot          *engine.Snapshot     `json:"snapshot"`
}

// PoolInfo provides information about a symbol pool
type PoolInfo struct {
	Filename    string `json:"filename,omitempty"`
	PoolID      string `json:"id"` // The identifier to use for session creation
	Name        string `json:"name"`
	Description string `json:"description"`
	Size        int    `json:"size"`
	MaxGrid     int    `json:"max_grid"` // Largest grid side the pool fills with pairs
	Builtin     bool   `json:"builtin"`
}
