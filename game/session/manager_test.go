package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/tilematch/game/engine"
)

func testOptions(clock *engine.ManualClock) engine.Options {
	opts := engine.DefaultOptions()
	opts.Clock = clock
	return opts
}

func testDeck() engine.Deck {
	return engine.Deck{Tokens: []string{"A", "B", "A", "B"}, GridSize: 2, GroupSize: 2}
}

func createSession(t *testing.T, m *Manager, id string) {
	t.Helper()
	_, err := m.Create(id, "emoji", engine.DefaultConfiguration(), testOptions(engine.NewManualClock(time.Now())))
	require.NoError(t, err)
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	cfg := engine.DefaultConfiguration()
	opts := testOptions(engine.NewManualClock(time.Now()))

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "emoji", cfg, opts)
		require.NoError(t, err)
		assert.Equal(t, "test-session", session.ID)
		assert.Equal(t, "emoji", session.Pool)
		assert.Equal(t, cfg, session.Configuration())
		require.NotNil(t, session.Game)
		assert.Equal(t, engine.StateIdle, session.Game.State())
		assert.False(t, session.CreatedAt.IsZero())
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "emoji", cfg, opts)
		require.NoError(t, err)
		assert.Len(t, session.ID, 4)
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		_, err := manager.Create("test-session", "emoji", cfg, opts)
		assert.ErrorIs(t, err, ErrSessionAlreadyExists)
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", "emoji", cfg, opts)
		assert.ErrorIs(t, err, ErrSessionAlreadyExists)
	})

	t.Run("invalid ID", func(t *testing.T) {
		_, err := manager.Create("bad/id", "emoji", cfg, opts)
		assert.ErrorIs(t, err, ErrInvalidSessionID)
		_, err = manager.Create(" padded", "emoji", cfg, opts)
		assert.ErrorIs(t, err, ErrInvalidSessionID)
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	createSession(t, manager, "get-test")

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		require.NoError(t, err)
		assert.Equal(t, "get-test", session.ID)
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		session, err := manager.Get("GET-TEST")
		require.NoError(t, err)
		assert.Equal(t, "get-test", session.ID)
	})

	t.Run("get non-existent session", func(t *testing.T) {
		_, err := manager.Get("non-existent")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()

	t.Run("delete existing session", func(t *testing.T) {
		createSession(t, manager, "delete-test")
		require.NoError(t, manager.Delete("delete-test"))

		_, err := manager.Get("delete-test")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("delete non-existent session", func(t *testing.T) {
		assert.ErrorIs(t, manager.Delete("non-existent"), ErrSessionNotFound)
	})

	t.Run("case-insensitive delete", func(t *testing.T) {
		createSession(t, manager, "case-test")
		require.NoError(t, manager.Delete("CASE-TEST"))
		_, err := manager.Get("case-test")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestManager_DeleteClosesGame(t *testing.T) {
	manager := NewManager()
	clock := engine.NewManualClock(time.Now())
	session, err := manager.Create("closing", "emoji", engine.DefaultConfiguration(), testOptions(clock))
	require.NoError(t, err)
	require.NoError(t, session.Game.Start(testDeck()))

	session.Game.Reveal(0)
	session.Game.Reveal(2)
	require.Positive(t, clock.Pending())

	require.NoError(t, manager.Delete("closing"))
	assert.Equal(t, engine.StateIdle, session.Game.State())
	assert.Zero(t, clock.Pending())
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	for i := 1; i <= 3; i++ {
		createSession(t, manager, fmt.Sprintf("list-%d", i))
	}

	found := make(map[string]bool)
	for _, s := range manager.List() {
		found[s.ID] = true
	}
	assert.Equal(t, map[string]bool{"list-1": true, "list-2": true, "list-3": true}, found)
	assert.Equal(t, 3, manager.Count())
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	createSession(t, manager, "active")
	createSession(t, manager, "expired")

	expired, err := manager.Get("expired")
	require.NoError(t, err)
	require.NoError(t, expired.Game.Start(testDeck()))

	// Simulate expired session
	expired.Touch(time.Now().Add(-2 * time.Hour))

	deleted := manager.CleanupExpiredSessions(time.Hour)
	assert.Equal(t, 1, deleted)

	_, err = manager.Get("expired")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, engine.StateIdle, expired.Game.State(), "expired games are closed")

	_, err = manager.Get("active")
	assert.NoError(t, err)
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return current }

	createSession(t, manager, "access-test")
	current = current.Add(time.Minute)

	require.NoError(t, manager.UpdateLastAccessed("ACCESS-TEST"))
	session, err := manager.Get("access-test")
	require.NoError(t, err)
	assert.Equal(t, current, session.LastAccessed())
	assert.True(t, session.LastAccessed().After(session.CreatedAt))

	assert.ErrorIs(t, manager.UpdateLastAccessed("missing"), ErrSessionNotFound)
}

func TestManager_CloseAll(t *testing.T) {
	manager := NewManager()
	createSession(t, manager, "a")
	createSession(t, manager, "b")

	assert.Equal(t, 2, manager.CloseAll())
	assert.Zero(t, manager.Count())
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	opts := testOptions(engine.NewManualClock(time.Now()))

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := manager.Create("", "emoji", engine.DefaultConfiguration(), opts)
			if err != nil {
				errs <- err
				return
			}
			if _, err := manager.Get(session.ID); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	assert.Equal(t, 100, manager.Count())
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	createSession(t, manager, "iso-1")
	createSession(t, manager, "iso-2")

	s1, _ := manager.Get("iso-1")
	s2, _ := manager.Get("iso-2")
	require.NoError(t, s1.Game.Start(testDeck()))
	require.NoError(t, s2.Game.Start(testDeck()))

	s1.Game.Reveal(0)

	assert.Equal(t, []int{0}, s1.Game.Snapshot().Revealed)
	assert.Empty(t, s2.Game.Snapshot().Revealed)
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	opts := testOptions(engine.NewManualClock(time.Now()))

	generated := make(map[string]bool)
	for range 50 {
		session, err := manager.Create("", "emoji", engine.DefaultConfiguration(), opts)
		require.NoError(t, err)
		assert.False(t, generated[session.ID], "duplicate session ID %s", session.ID)
		generated[session.ID] = true
		assert.Regexp(t, "^[0-9a-f]{4}$", session.ID)
	}
}
