package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrPoolNotFound    = errors.New("pool not found")
	ErrInvalidPoolName = errors.New("invalid pool name")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, opts SessionOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Reveal(ctx context.Context, sessionID string, index int) (*RevealResult, error)
	Restart(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	SetConfiguration(ctx context.Context, sessionID string, cfg engine.Configuration) (*SessionInfo, error)

	// Game State
	GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Pools
	ListPools(ctx context.Context) ([]*PoolInfo, error)
	GetPool(ctx context.Context, name string) (*engine.SymbolPool, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, pool string, cfg engine.Configuration, opts engine.Options) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// PoolCatalog supplies symbol pools
type PoolCatalog interface {
	LoadPool(name string) (*engine.SymbolPool, error)
	ListPools() ([]*PoolInfo, error)
	DefaultName() string
}

// Notifier receives session changes that happen outside a request, such as
// a delayed resolution or a timer tick.
type Notifier interface {
	Notify(sessionID, event string, snap *engine.Snapshot)
}

// Session represents an active game session
type Session struct {
	ID        string
	Game      *engine.Session
	Pool      string
	CreatedAt time.Time

	// Config and LastAccessedAt are set at creation. Once the session is
	// shared, go through the accessors below.
	Config         engine.Configuration
	LastAccessedAt time.Time

	mu sync.RWMutex
}

// Touch records an access at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastAccessedAt = now
}

// LastAccessed returns the time of the last access.
func (s *Session) LastAccessed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastAccessedAt
}

// Configuration returns the configuration of the running game.
func (s *Session) Configuration() engine.Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Config
}

// SetConfiguration records the configuration of a newly started game.
func (s *Session) SetConfiguration(cfg engine.Configuration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Config = cfg
}
