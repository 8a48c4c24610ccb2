package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
)

// Options configures the game service.
type Options struct {
	// Engine is the template for every hosted engine session. Its OnChange
	// is replaced by the service.
	Engine engine.Options

	// Notifier, when set, receives asynchronous session changes.
	Notifier Notifier

	// Builder builds decks. Nil uses the randomly seeded package source.
	Builder *engine.DeckBuilder

	// MaxGridSize caps the grid of hosted games. Zero means no cap.
	MaxGridSize int
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	pools    PoolCatalog
	opts     Options
	builder  *engine.DeckBuilder
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, pools PoolCatalog, opts Options) GameService {
	builder := opts.Builder
	if builder == nil {
		builder = &engine.DeckBuilder{}
	}
	return &gameServiceImpl{
		sessions: sessions,
		pools:    pools,
		opts:     opts,
		builder:  builder,
	}
}

// CreateSession builds a deck and starts a new hosted game. Configuration
// errors leave no session behind.
func (s *gameServiceImpl) CreateSession(ctx context.Context, opts SessionOptions) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poolName := opts.Pool
	if poolName == "" {
		poolName = s.pools.DefaultName()
	}
	cfg := opts.Configuration()

	deck, err := s.buildDeck(poolName, cfg)
	if err != nil {
		return nil, err
	}

	var id string
	sess, err := s.sessions.Create("", poolName, cfg, s.engineOptions(&id))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	id = sess.ID

	if err := sess.Game.Start(deck); err != nil {
		_ = s.sessions.Delete(sess.ID)
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	log.Info().
		Str("session", sess.ID).
		Str("pool", poolName).
		Int("grid_size", cfg.GridSize).
		Int("group_size", cfg.GroupSize).
		Msg("session created")

	return s.info(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.info(sess), nil
}

// ListSessions returns all active sessions ordered by creation time
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	slices.SortFunc(sessions, func(a, b *Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.info(sess))
	}
	return result, nil
}

// DeleteSession removes a session and stops its game
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Reveal forwards a reveal intent to the session's game.
func (s *gameServiceImpl) Reveal(ctx context.Context, sessionID string, index int) (*RevealResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	outcome := sess.Game.Reveal(index)
	snap := sess.Game.Snapshot()

	result := &RevealResult{
		Accepted:          outcome.Accepted(),
		Outcome:           outcome,
		ResolutionPending: outcome == engine.RevealGroupComplete && snap.Locked,
		Snapshot:          &snap,
	}
	if !result.Accepted {
		result.Reason = string(outcome)
		log.Debug().Str("session", sessionID).Int("index", index).Str("reason", result.Reason).Msg("reveal ignored")
	}
	return result, nil
}

// Restart deals a fresh deck from the session's pool and configuration.
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	deck, err := s.buildDeck(sess.Pool, sess.Configuration())
	if err != nil {
		return nil, err
	}
	if err := sess.Game.Start(deck); err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	log.Info().Str("session", sessionID).Msg("game restarted")
	snap := sess.Game.Snapshot()
	return &snap, nil
}

// SetConfiguration replaces the running game with one for cfg. On error the
// running game is left untouched.
func (s *gameServiceImpl) SetConfiguration(ctx context.Context, sessionID string, cfg engine.Configuration) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	deck, err := s.buildDeck(sess.Pool, cfg)
	if err != nil {
		return nil, err
	}
	if err := sess.Game.Start(deck); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}
	sess.SetConfiguration(cfg)

	log.Info().
		Str("session", sessionID).
		Int("grid_size", cfg.GridSize).
		Int("group_size", cfg.GroupSize).
		Msg("configuration changed")

	return s.info(sess), nil
}

// GetSnapshot returns the current read-only view of a session's game
func (s *gameServiceImpl) GetSnapshot(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Game.Snapshot()
	return &snap, nil
}

// ListPools returns all available symbol pools
func (s *gameServiceImpl) ListPools(ctx context.Context) ([]*PoolInfo, error) {
	return s.pools.ListPools()
}

// GetPool returns a symbol pool by name
func (s *gameServiceImpl) GetPool(ctx context.Context, name string) (*engine.SymbolPool, error) {
	return s.loadPool(name)
}

func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// loadPool loads a pool, listing the available ones when it does not exist.
func (s *gameServiceImpl) loadPool(name string) (*engine.SymbolPool, error) {
	pool, err := s.pools.LoadPool(name)
	if err == nil {
		return pool, nil
	}
	if !errors.Is(err, ErrPoolNotFound) {
		return nil, fmt.Errorf("failed to load pool %s: %w", name, err)
	}

	available, listErr := s.pools.ListPools()
	if listErr != nil || len(available) == 0 {
		return nil, fmt.Errorf("pool '%s': %w", name, err)
	}
	ids := make([]string, 0, len(available))
	for _, info := range available {
		ids = append(ids, info.PoolID)
	}
	return nil, fmt.Errorf("pool '%s': %w. Available pools: %v", name, err, ids)
}

func (s *gameServiceImpl) buildDeck(poolName string, cfg engine.Configuration) (engine.Deck, error) {
	if limit := s.opts.MaxGridSize; limit > 0 && cfg.GridSize > limit {
		return engine.Deck{}, &engine.ConfigurationError{
			Field:  "grid_size",
			Reason: fmt.Sprintf("hosted games are limited to %dx%d, got %d", limit, limit, cfg.GridSize),
			Err:    engine.ErrInvalidGridSize,
		}
	}
	pool, err := s.loadPool(poolName)
	if err != nil {
		return engine.Deck{}, err
	}
	deck, err := s.builder.Build(pool.Symbols, cfg)
	if err != nil {
		return engine.Deck{}, fmt.Errorf("pool %s: %w", poolName, err)
	}
	return deck, nil
}

// engineOptions returns the engine options for a hosted session. The id is
// read when a change is published, after the session manager assigned it.
func (s *gameServiceImpl) engineOptions(id *string) engine.Options {
	opts := s.opts.Engine
	opts.OnChange = func(ev engine.Event, snap engine.Snapshot) {
		if ev == engine.EventCompleted {
			score := 0
			if snap.Score != nil {
				score = *snap.Score
			}
			log.Info().
				Str("session", *id).
				Int("moves", snap.Moves).
				Int64("elapsed_ms", snap.ElapsedMs).
				Int("score", score).
				Msg("game completed")
		}
		if s.opts.Notifier != nil {
			s.opts.Notifier.Notify(*id, eventName(ev), &snap)
		}
	}
	return opts
}

func eventName(ev engine.Event) string {
	switch ev {
	case engine.EventResolved:
		return EventResolved
	case engine.EventCompleted:
		return EventCompleted
	case engine.EventTick:
		return EventTick
	}
	return EventStateUpdate
}

func (s *gameServiceImpl) info(sess *Session) *SessionInfo {
	snap := sess.Game.Snapshot()
	return &SessionInfo{
		ID:             sess.ID,
		Pool:           sess.Pool,
		Configuration:  sess.Configuration(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		Snapshot:       &snap,
	}
}
