package pool

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
	"github.com/wricardo/mcp-training/tilematch/game/service"
)

var (
	ErrPoolNotFound    = service.ErrPoolNotFound
	ErrInvalidPool     = engine.ErrInvalidPool
	ErrInvalidPoolName = service.ErrInvalidPoolName
	ErrNoPoolDir       = errors.New("catalog has no pool directory")
)

// Catalog loads symbol pools from JSON files in a directory and caches
// them. Built-in pools are always available; a file with the same ID
// replaces the built-in.
type Catalog struct {
	dir         string
	defaultName string
	builtins    map[string]*engine.SymbolPool
	pools       map[string]*engine.SymbolPool
	mu          sync.RWMutex
}

// NewCatalog creates a catalog over dir. An empty dir serves built-in pools
// only.
func NewCatalog(dir string) (*Catalog, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("pool directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("pool directory %s is not a directory", dir)
		}
	}

	return &Catalog{
		dir:         dir,
		defaultName: DefaultPool,
		builtins:    Builtins(),
		pools:       make(map[string]*engine.SymbolPool),
	}, nil
}

// Dir returns the directory pools are loaded from.
func (c *Catalog) Dir() string {
	return c.dir
}

// LoadPool loads a pool by ID. The ID is the file name without the .json
// extension, or the name of a built-in pool.
func (c *Catalog) LoadPool(name string) (*engine.SymbolPool, error) {
	id, err := poolID(name)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	if p, ok := c.pools[id]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if p, ok := c.pools[id]; ok {
		return p, nil
	}

	p, err := c.loadFile(id)
	switch {
	case err == nil:
	case errors.Is(err, ErrPoolNotFound):
		builtin, ok := c.builtins[id]
		if !ok {
			return nil, ErrPoolNotFound
		}
		p = builtin
	default:
		return nil, err
	}

	c.pools[id] = p
	return p, nil
}

// ListPools returns information about all available pools, sorted by ID.
// Files that fail validation are skipped.
func (c *Catalog) ListPools() ([]*service.PoolInfo, error) {
	infos := make(map[string]*service.PoolInfo)
	for id, p := range c.builtins {
		infos[id] = newPoolInfo(id, "", p, true)
	}

	if c.dir != "" {
		entries, err := os.ReadDir(c.dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read pool directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			id := strings.TrimSuffix(entry.Name(), ".json")
			p, err := c.LoadPool(id)
			if err != nil {
				log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping invalid pool file")
				continue
			}
			infos[id] = newPoolInfo(id, entry.Name(), p, false)
		}
	}

	result := make([]*service.PoolInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PoolID < result[j].PoolID })
	return result, nil
}

// DefaultName returns the ID of the default pool.
func (c *Catalog) DefaultName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultName
}

// SetDefault sets the default pool by ID.
func (c *Catalog) SetDefault(name string) error {
	if _, err := c.LoadPool(name); err != nil {
		return err
	}
	id, _ := poolID(name)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultName = id
	return nil
}

// SavePool validates p and writes it to the pool directory.
func (c *Catalog) SavePool(name string, p *engine.SymbolPool) error {
	if c.dir == "" {
		return ErrNoPoolDir
	}
	id, err := poolID(name)
	if err != nil {
		return err
	}
	if err := engine.ValidateSymbolPool(p); err != nil {
		return err
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pool: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, id+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write pool file: %w", err)
	}

	c.mu.Lock()
	c.pools[id] = p
	c.mu.Unlock()
	return nil
}

// Refresh drops all cached pools so that the next load reads from disk.
func (c *Catalog) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pools = make(map[string]*engine.SymbolPool)
}

func (c *Catalog) loadFile(id string) (*engine.SymbolPool, error) {
	if c.dir == "" {
		return nil, ErrPoolNotFound
	}
	p, err := LoadFile(filepath.Join(c.dir, id+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrPoolNotFound
	}
	return p, err
}

// LoadFile reads and validates a single pool file.
func LoadFile(path string) (*engine.SymbolPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pool file: %w", err)
	}

	var p engine.SymbolPool
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidPool, filepath.Base(path), err)
	}
	if err := engine.ValidateSymbolPool(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func poolID(name string) (string, error) {
	id := strings.TrimSuffix(strings.TrimSpace(name), ".json")
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPoolName, name)
	}
	return id, nil
}

func newPoolInfo(id, filename string, p *engine.SymbolPool, builtin bool) *service.PoolInfo {
	return &service.PoolInfo{
		Filename:    filename,
		PoolID:      id,
		Name:        p.Name,
		Description: p.Description,
		Size:        p.Len(),
		MaxGrid:     p.MaxGrid(engine.DefaultGroupSize),
		Builtin:     builtin,
	}
}
