package pool

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
)

func writePoolFile(t *testing.T, dir, name string, p *engine.SymbolPool) {
	t.Helper()
	data, err := json.MarshalIndent(p, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0644))
}

func planets() *engine.SymbolPool {
	return &engine.SymbolPool{
		Name:        "Planets",
		Description: "The solar system",
		Symbols:     []string{"☿", "♀", "♁", "♂", "♃", "♄", "♅", "♆"},
	}
}

func TestNewCatalog(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		c, err := NewCatalog(t.TempDir())
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("builtins only", func(t *testing.T) {
		c, err := NewCatalog("")
		require.NoError(t, err)
		p, err := c.LoadPool(DefaultPool)
		require.NoError(t, err)
		assert.Equal(t, 64, p.Len())
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewCatalog("/non/existent/path")
		assert.Error(t, err)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		f := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(f, []byte("x"), 0644))
		_, err := NewCatalog(f)
		assert.Error(t, err)
	})
}

func TestBuiltins(t *testing.T) {
	want := map[string]int{"emoji": 64, "letters": 52, "numbers": 144}
	builtins := Builtins()
	require.Len(t, builtins, len(want))

	for id, size := range want {
		p := builtins[id]
		require.NotNil(t, p, id)
		assert.Equal(t, size, p.Len(), id)
		assert.NoError(t, engine.ValidateSymbolPool(p), id)
	}
}

func TestCatalog_LoadPool(t *testing.T) {
	dir := t.TempDir()
	writePoolFile(t, dir, "planets", planets())

	c, err := NewCatalog(dir)
	require.NoError(t, err)

	t.Run("load existing pool", func(t *testing.T) {
		p, err := c.LoadPool("planets")
		require.NoError(t, err)
		assert.Equal(t, "Planets", p.Name)
		assert.Equal(t, 8, p.Len())
	})

	t.Run("load with .json extension", func(t *testing.T) {
		p, err := c.LoadPool("planets.json")
		require.NoError(t, err)
		assert.Equal(t, "Planets", p.Name)
	})

	t.Run("load from cache", func(t *testing.T) {
		p1, _ := c.LoadPool("planets")
		p2, err := c.LoadPool("planets")
		require.NoError(t, err)
		assert.Same(t, p1, p2)
	})

	t.Run("load builtin", func(t *testing.T) {
		p, err := c.LoadPool("letters")
		require.NoError(t, err)
		assert.Equal(t, 52, p.Len())
	})

	t.Run("load non-existent pool", func(t *testing.T) {
		_, err := c.LoadPool("non-existent")
		assert.ErrorIs(t, err, ErrPoolNotFound)
	})

	t.Run("reject path traversal", func(t *testing.T) {
		_, err := c.LoadPool("../secrets")
		assert.ErrorIs(t, err, ErrInvalidPoolName)
		_, err = c.LoadPool("")
		assert.ErrorIs(t, err, ErrInvalidPoolName)
	})

	t.Run("load duplicate symbols", func(t *testing.T) {
		writePoolFile(t, dir, "dupes", &engine.SymbolPool{Name: "Dupes", Symbols: []string{"a", "b", "a"}})
		_, err := c.LoadPool("dupes")
		assert.ErrorIs(t, err, ErrInvalidPool)
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "malformed.json"), []byte(`{"name": "x", invalid}`), 0644))
		_, err := c.LoadPool("malformed")
		assert.ErrorIs(t, err, ErrInvalidPool)
	})
}

func TestCatalog_FileOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writePoolFile(t, dir, "emoji", &engine.SymbolPool{Name: "Tiny Emoji", Symbols: []string{"🙂", "🙃"}})

	c, err := NewCatalog(dir)
	require.NoError(t, err)

	p, err := c.LoadPool("emoji")
	require.NoError(t, err)
	assert.Equal(t, "Tiny Emoji", p.Name)

	pools, err := c.ListPools()
	require.NoError(t, err)
	for _, info := range pools {
		if info.PoolID == "emoji" {
			assert.False(t, info.Builtin)
			assert.Equal(t, "emoji.json", info.Filename)
			assert.Equal(t, 2, info.Size)
		}
	}
}

func TestCatalog_ListPools(t *testing.T) {
	dir := t.TempDir()
	writePoolFile(t, dir, "planets", planets())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644))

	c, err := NewCatalog(dir)
	require.NoError(t, err)

	pools, err := c.ListPools()
	require.NoError(t, err)

	ids := make([]string, 0, len(pools))
	byID := make(map[string]int)
	for _, info := range pools {
		ids = append(ids, info.PoolID)
		byID[info.PoolID] = info.MaxGrid
	}
	assert.Equal(t, []string{"emoji", "letters", "numbers", "planets"}, ids)

	assert.Equal(t, 11, byID["emoji"])
	assert.Equal(t, 10, byID["letters"])
	assert.Equal(t, 17, byID["numbers"])
	assert.Equal(t, 4, byID["planets"])
}

func TestCatalog_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writePoolFile(t, dir, "planets", planets())
	c, err := NewCatalog(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultPool, c.DefaultName())
	require.NoError(t, c.SetDefault("planets.json"))
	assert.Equal(t, "planets", c.DefaultName())
	assert.ErrorIs(t, c.SetDefault("missing"), ErrPoolNotFound)
	assert.Equal(t, "planets", c.DefaultName())
}

func TestCatalog_SavePool(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCatalog(dir)
	require.NoError(t, err)

	require.NoError(t, c.SavePool("planets", planets()))
	_, err = os.Stat(filepath.Join(dir, "planets.json"))
	require.NoError(t, err)

	c.Refresh()
	p, err := c.LoadPool("planets")
	require.NoError(t, err)
	assert.Equal(t, planets().Symbols, p.Symbols)

	err = c.SavePool("empty", &engine.SymbolPool{Name: "Empty"})
	assert.ErrorIs(t, err, ErrInvalidPool)

	builtinOnly, err := NewCatalog("")
	require.NoError(t, err)
	assert.ErrorIs(t, builtinOnly.SavePool("planets", planets()), ErrNoPoolDir)
}

func TestCatalog_RefreshReadsDisk(t *testing.T) {
	dir := t.TempDir()
	writePoolFile(t, dir, "changeable", planets())
	c, err := NewCatalog(dir)
	require.NoError(t, err)

	p, err := c.LoadPool("changeable")
	require.NoError(t, err)
	assert.Equal(t, 8, p.Len())

	smaller := planets()
	smaller.Symbols = smaller.Symbols[:4]
	writePoolFile(t, dir, "changeable", smaller)

	p, _ = c.LoadPool("changeable")
	assert.Equal(t, 8, p.Len(), "cached until refresh")

	c.Refresh()
	p, err = c.LoadPool("changeable")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Len())
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writePoolFile(t, dir, "planets", planets())
	c, err := NewCatalog(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "planets"
			if i%2 == 0 {
				name = "emoji"
			}
			if _, err := c.LoadPool(name); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestPoolBuildsDeck(t *testing.T) {
	c, err := NewCatalog("")
	require.NoError(t, err)
	p, err := c.LoadPool("letters")
	require.NoError(t, err)

	_, err = engine.BuildDeck(p.Symbols, engine.Configuration{GridSize: 10, GroupSize: 2})
	require.NoError(t, err)

	_, err = engine.BuildDeck(p.Symbols, engine.Configuration{GridSize: 11, GroupSize: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrInsufficientSymbols))
}
