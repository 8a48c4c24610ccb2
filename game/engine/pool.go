package engine

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPool = errors.New("invalid symbol pool")

// SymbolPool is a named set of unique tokens decks are drawn from.
type SymbolPool struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Symbols     []string `json:"symbols"`
}

// Len returns the number of symbols in the pool.
func (p *SymbolPool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Symbols)
}

// Supports reports whether the pool holds enough symbols for cfg.
func (p *SymbolPool) Supports(cfg Configuration) bool {
	return cfg.Validate() == nil && p.Len() >= cfg.UniqueNeeded()
}

// MaxGrid returns the largest grid side the pool can fill with groups of
// groupSize, or 0 when even the smallest grid needs more symbols.
func (p *SymbolPool) MaxGrid(groupSize int) int {
	best := 0
	for g := MinGridSize; g <= MaxGridSize; g++ {
		if p.Supports(Configuration{GridSize: g, GroupSize: groupSize}) {
			best = g
		}
	}
	return best
}

// ValidateSymbolPool checks that the pool is named and holds at least one
// symbol, with no blank or repeated symbols.
func ValidateSymbolPool(p *SymbolPool) error {
	if p == nil {
		return fmt.Errorf("%w: pool is nil", ErrInvalidPool)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPool)
	}
	if len(p.Symbols) == 0 {
		return fmt.Errorf("%w: %s has no symbols", ErrInvalidPool, p.Name)
	}

	seen := make(map[string]int, len(p.Symbols))
	for i, sym := range p.Symbols {
		if strings.TrimSpace(sym) == "" {
			return fmt.Errorf("%w: symbol %d is blank", ErrInvalidPool, i)
		}
		if prev, dup := seen[sym]; dup {
			return fmt.Errorf("%w: symbol %q repeated at %d and %d", ErrInvalidPool, sym, prev, i)
		}
		seen[sym] = i
	}
	return nil
}
