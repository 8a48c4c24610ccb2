package engine

import (
	"fmt"
	"math/rand/v2"
)

// Deck is the shuffled token sequence occupying the grid's usable cells,
// together with the configuration it was built for.
type Deck struct {
	Tokens    []string `json:"tokens"`
	GridSize  int      `json:"grid_size"`
	GroupSize int      `json:"group_size"`
}

// Len returns the number of tokens in the deck.
func (d Deck) Len() int {
	return len(d.Tokens)
}

// Configuration returns the configuration the deck was built for.
func (d Deck) Configuration() Configuration {
	return Configuration{GridSize: d.GridSize, GroupSize: d.GroupSize}
}

// Validate checks the deck invariant: non-empty, fits the grid, and every
// distinct token appears exactly GroupSize times.
func (d Deck) Validate() error {
	if err := d.Configuration().Validate(); err != nil {
		return err
	}
	if len(d.Tokens) == 0 {
		return ErrEmptyDeck
	}
	if len(d.Tokens) > d.Configuration().TotalCells() {
		return fmt.Errorf("deck of %d tokens does not fit a %dx%d grid", len(d.Tokens), d.GridSize, d.GridSize)
	}
	counts := make(map[string]int, len(d.Tokens)/d.GroupSize)
	for _, tok := range d.Tokens {
		counts[tok]++
	}
	for tok, n := range counts {
		if n != d.GroupSize {
			return fmt.Errorf("token %q appears %d times, want %d", tok, n, d.GroupSize)
		}
	}
	return nil
}

// DeckBuilder builds decks from a symbol pool. Rand selects the random
// source; nil uses the randomly seeded package source.
type DeckBuilder struct {
	Rand *rand.Rand
}

// NewSeededDeckBuilder returns a builder whose decks are reproducible for a
// given seed.
func NewSeededDeckBuilder(seed uint64) *DeckBuilder {
	return &DeckBuilder{Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// BuildDeck builds a deck with the package random source.
func BuildDeck(pool []string, cfg Configuration) (Deck, error) {
	var b DeckBuilder
	return b.Build(pool, cfg)
}

// Build selects UniqueNeeded distinct tokens from pool, replicates each
// GroupSize times and shuffles the result. The pool is trusted to hold
// unique tokens. A pool smaller than UniqueNeeded fails with a
// ConfigurationError; the deck is never silently downsized.
func (b *DeckBuilder) Build(pool []string, cfg Configuration) (Deck, error) {
	if err := cfg.Validate(); err != nil {
		return Deck{}, err
	}

	unique := cfg.UniqueNeeded()
	if len(pool) < unique {
		return Deck{}, &ConfigurationError{
			Field: "pool",
			Reason: fmt.Sprintf("a %dx%d grid with groups of %d needs %d symbols, pool has %d",
				cfg.GridSize, cfg.GridSize, cfg.GroupSize, unique, len(pool)),
			Err: ErrInsufficientSymbols,
		}
	}

	selected := ShuffleWith(pool, b.Rand)[:unique]
	tokens := make([]string, 0, cfg.UsableCells())
	for _, tok := range selected {
		for range cfg.GroupSize {
			tokens = append(tokens, tok)
		}
	}

	return Deck{
		Tokens:    ShuffleWith(tokens, b.Rand),
		GridSize:  cfg.GridSize,
		GroupSize: cfg.GroupSize,
	}, nil
}
