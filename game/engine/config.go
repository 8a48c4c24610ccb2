package engine

import (
	"fmt"
	"time"
)

const (
	// Validation constants
	MinGridSize  = 2
	MinGroupSize = 2

	// MaxGridSize bounds capacity scans such as SymbolPool.MaxGrid. It is
	// not a validation limit.
	MaxGridSize = 20

	DefaultGridSize            = 4
	DefaultGroupSize           = 2
	DefaultResolveDelay        = time.Second
	DefaultTickInterval        = time.Second
	DefaultPenaltyPerExtraMove = 5
	MaxScore                   = 100
)

// Configuration selects the grid side length and how many identical tokens
// form one matching group.
type Configuration struct {
	GridSize  int `json:"grid_size"`
	GroupSize int `json:"group_size"`
}

// DefaultConfiguration returns a 4x4 grid of pairs.
func DefaultConfiguration() Configuration {
	return Configuration{GridSize: DefaultGridSize, GroupSize: DefaultGroupSize}
}

// Validate checks the lower grid and group bounds. There is no upper grid
// bound; a large grid only needs a large enough pool, which BuildDeck checks.
func (c Configuration) Validate() error {
	if c.GridSize < MinGridSize {
		return &ConfigurationError{
			Field:  "grid_size",
			Reason: fmt.Sprintf("must be at least %d, got %d", MinGridSize, c.GridSize),
			Err:    ErrInvalidGridSize,
		}
	}
	if c.GroupSize < MinGroupSize {
		return &ConfigurationError{
			Field:  "group_size",
			Reason: fmt.Sprintf("must be at least %d, got %d", MinGroupSize, c.GroupSize),
			Err:    ErrInvalidGroupSize,
		}
	}
	if c.GroupSize > c.GridSize*c.GridSize {
		return &ConfigurationError{
			Field:  "group_size",
			Reason: fmt.Sprintf("group of %d does not fit a %dx%d grid", c.GroupSize, c.GridSize, c.GridSize),
			Err:    ErrInvalidGroupSize,
		}
	}
	return nil
}

// TotalCells is GridSize².
func (c Configuration) TotalCells() int {
	return c.GridSize * c.GridSize
}

// UsableCells is the largest multiple of GroupSize not exceeding TotalCells.
// Cells beyond it stay empty for the whole game.
func (c Configuration) UsableCells() int {
	total := c.TotalCells()
	if c.GroupSize <= 0 {
		return 0
	}
	return total - total%c.GroupSize
}

// UniqueNeeded is the number of distinct tokens a deck for c contains.
func (c Configuration) UniqueNeeded() int {
	if c.GroupSize <= 0 {
		return 0
	}
	return c.UsableCells() / c.GroupSize
}

// UnusedCells is the number of grid cells left empty by the remainder policy.
func (c Configuration) UnusedCells() int {
	return c.TotalCells() - c.UsableCells()
}

// Options tune a Session. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// ResolveDelay is the observation pause between completing a group and
	// resolving it. Zero or negative resolves immediately.
	ResolveDelay time.Duration

	// TickInterval drives OnChange notifications while a game runs so that
	// push-based presenters can refresh the elapsed time. Zero disables ticks.
	TickInterval time.Duration

	// PenaltyPerExtraMove is the score deducted per move above the ideal.
	// Zero scores every completed game at MaxScore. Negative means
	// DefaultPenaltyPerExtraMove.
	PenaltyPerExtraMove int

	// Clock provides time and scheduling. Nil means the wall clock.
	Clock Clock

	// OnChange is called after every asynchronous transition (resolution,
	// completion, tick). It runs outside the session lock and may call back
	// into the session.
	OnChange func(Event, Snapshot)
}

// DefaultOptions returns one second resolution delay, one second ticks and
// the default score penalty on the wall clock.
func DefaultOptions() Options {
	return Options{
		ResolveDelay:        DefaultResolveDelay,
		TickInterval:        DefaultTickInterval,
		PenaltyPerExtraMove: DefaultPenaltyPerExtraMove,
	}
}
