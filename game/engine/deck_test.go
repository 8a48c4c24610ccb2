package engine

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symbolPool(n int) []string {
	pool := make([]string, n)
	for i := range pool {
		pool[i] = fmt.Sprintf("sym-%02d", i)
	}
	return pool
}

func tokenCounts(tokens []string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range tokens {
		counts[tok]++
	}
	return counts
}

func TestBuildDeck_PairsOnFourByFour(t *testing.T) {
	deck, err := BuildDeck(symbolPool(8), Configuration{GridSize: 4, GroupSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 16, deck.Len())
	counts := tokenCounts(deck.Tokens)
	assert.Len(t, counts, 8)
	for tok, n := range counts {
		assert.Equal(t, 2, n, "token %s", tok)
	}
	assert.NoError(t, deck.Validate())
}

func TestBuildDeck_RemainderCellsUnused(t *testing.T) {
	cfg := Configuration{GridSize: 4, GroupSize: 3}
	deck, err := BuildDeck(symbolPool(5), cfg)
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.UsableCells())
	assert.Equal(t, 1, cfg.UnusedCells())
	assert.Equal(t, 15, deck.Len())
	counts := tokenCounts(deck.Tokens)
	assert.Len(t, counts, 5)
	for _, n := range counts {
		assert.Equal(t, 3, n)
	}
}

func TestBuildDeck_InsufficientSymbols(t *testing.T) {
	_, err := BuildDeck(symbolPool(3), Configuration{GridSize: 4, GroupSize: 2})
	require.Error(t, err)

	assert.True(t, IsConfigurationError(err))
	assert.True(t, errors.Is(err, ErrInsufficientSymbols))

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "pool", cfgErr.Field)
}

func TestBuildDeck_EmptyPool(t *testing.T) {
	_, err := BuildDeck(nil, DefaultConfiguration())
	assert.ErrorIs(t, err, ErrInsufficientSymbols)
}

func TestBuildDeck_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name string
		cfg  Configuration
		want error
	}{
		{"grid too small", Configuration{GridSize: 1, GroupSize: 2}, ErrInvalidGridSize},
		{"group of one", Configuration{GridSize: 4, GroupSize: 1}, ErrInvalidGroupSize},
		{"group larger than grid", Configuration{GridSize: 2, GroupSize: 5}, ErrInvalidGroupSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildDeck(symbolPool(500), tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, IsConfigurationError(err))
		})
	}
}

func TestBuildDeck_LargeGridNeedsOnlyEnoughSymbols(t *testing.T) {
	cfg := Configuration{GridSize: MaxGridSize + 1, GroupSize: 2}
	require.NoError(t, cfg.Validate())

	deck, err := BuildDeck(symbolPool(300), cfg)
	require.NoError(t, err)
	assert.Len(t, deck.Tokens, 440)
	assert.Equal(t, 220, cfg.UniqueNeeded())

	_, err = BuildDeck(symbolPool(219), cfg)
	assert.ErrorIs(t, err, ErrInsufficientSymbols)
}

func TestBuildDeck_LengthIsLargestMultipleOfGroup(t *testing.T) {
	for grid := MinGridSize; grid <= 8; grid++ {
		for group := MinGroupSize; group <= 5 && group <= grid*grid; group++ {
			cfg := Configuration{GridSize: grid, GroupSize: group}
			deck, err := BuildDeck(symbolPool(cfg.UniqueNeeded()), cfg)
			require.NoError(t, err, "grid=%d group=%d", grid, group)

			total := grid * grid
			assert.Equal(t, total-total%group, deck.Len(), "grid=%d group=%d", grid, group)
			assert.Zero(t, deck.Len()%group)
			for _, n := range tokenCounts(deck.Tokens) {
				assert.Equal(t, group, n)
			}
		}
	}
}

func TestBuildDeck_DoesNotMutatePool(t *testing.T) {
	pool := symbolPool(20)
	orig := append([]string(nil), pool...)

	_, err := BuildDeck(pool, DefaultConfiguration())
	require.NoError(t, err)
	assert.Equal(t, orig, pool)
}

func TestDeckBuilder_SeededIsReproducible(t *testing.T) {
	cfg := Configuration{GridSize: 6, GroupSize: 2}
	a, err := NewSeededDeckBuilder(42).Build(symbolPool(40), cfg)
	require.NoError(t, err)
	b, err := NewSeededDeckBuilder(42).Build(symbolPool(40), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Tokens, b.Tokens)
}

func TestDeck_Validate(t *testing.T) {
	tests := []struct {
		name    string
		deck    Deck
		wantErr bool
	}{
		{"valid pairs", Deck{Tokens: []string{"a", "b", "b", "a"}, GridSize: 2, GroupSize: 2}, false},
		{"valid triple with unused cell", Deck{Tokens: []string{"a", "a", "a"}, GridSize: 2, GroupSize: 3}, false},
		{"empty", Deck{GridSize: 2, GroupSize: 2}, true},
		{"unbalanced", Deck{Tokens: []string{"a", "a", "a", "b"}, GridSize: 2, GroupSize: 2}, true},
		{"too many tokens", Deck{Tokens: []string{"a", "a", "b", "b", "c", "c"}, GridSize: 2, GroupSize: 2}, true},
		{"bad configuration", Deck{Tokens: []string{"a"}, GridSize: 2, GroupSize: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.deck.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShuffle_PreservesMultiset(t *testing.T) {
	in := []string{"a", "b", "b", "c", "d", "d", "d", "e"}
	orig := append([]string(nil), in...)

	out := Shuffle(in)

	assert.Equal(t, orig, in, "input must not be mutated")
	require.Len(t, out, len(in))

	sortedIn := append([]string(nil), in...)
	sortedOut := append([]string(nil), out...)
	sort.Strings(sortedIn)
	sort.Strings(sortedOut)
	assert.Equal(t, sortedIn, sortedOut)
}

func TestShuffle_Empty(t *testing.T) {
	assert.Empty(t, Shuffle([]int{}))
	assert.Empty(t, Shuffle[int](nil))
}

func TestShuffle_ProducesDifferentOrders(t *testing.T) {
	in := make([]int, 52)
	for i := range in {
		in[i] = i
	}

	seen := make(map[string]bool)
	for range 10 {
		seen[fmt.Sprint(Shuffle(in))] = true
	}
	assert.Greater(t, len(seen), 1)
}
