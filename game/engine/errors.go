package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGridSize     = errors.New("invalid grid size")
	ErrInvalidGroupSize    = errors.New("invalid group size")
	ErrInsufficientSymbols = errors.New("insufficient symbols")
	ErrEmptyDeck           = errors.New("deck is empty")
)

// ConfigurationError reports a configuration that cannot produce a playable
// deck. It is raised at configuration or deck-build time, never mid-game.
type ConfigurationError struct {
	Field  string // "grid_size", "group_size" or "pool"
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
