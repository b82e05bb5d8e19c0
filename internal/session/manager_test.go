package session

import (
	"context"
	"testing"
	"time"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/schema"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	return NewManager(zap.NewNop(), schema.Builtin(), nil, nil, ttl)
}

func TestManager(t *testing.T) {
	t.Run("Should hand a session back to its owner", func(t *testing.T) {
		m := newTestManager(t, time.Hour)

		s := m.Open(context.Background(), "alice")
		got, err := m.Get(s.ID, "alice")
		require.NoError(t, err)
		require.Same(t, s, got)
		require.Equal(t, 1, m.Count())
	})

	t.Run("Should refuse a session to another user", func(t *testing.T) {
		m := newTestManager(t, time.Hour)

		s := m.Open(context.Background(), "alice")
		_, err := m.Get(s.ID, "mallory")
		require.ErrorIs(t, err, internal.ErrSessionNotOwned)
	})

	t.Run("Should report unknown session ids", func(t *testing.T) {
		m := newTestManager(t, time.Hour)

		_, err := m.Get(uuid.New(), "alice")
		require.ErrorIs(t, err, internal.ErrSessionNotFound)
	})

	t.Run("Should close only the owner's session", func(t *testing.T) {
		m := newTestManager(t, time.Hour)
		s := m.Open(context.Background(), "alice")

		require.ErrorIs(t, m.Close(context.Background(), s.ID, "mallory"), internal.ErrSessionNotOwned)
		require.NoError(t, m.Close(context.Background(), s.ID, "alice"))
		require.ErrorIs(t, m.Close(context.Background(), s.ID, "alice"), internal.ErrSessionNotFound)
		require.Equal(t, 0, m.Count())
	})

	t.Run("Should sweep sessions idle past the TTL", func(t *testing.T) {
		m := newTestManager(t, time.Minute)
		idle := m.Open(context.Background(), "alice")
		live := m.Open(context.Background(), "bob")

		m.mu.Lock()
		m.sessions[idle.ID].lastSeen = time.Now().Add(-2 * time.Minute)
		m.mu.Unlock()

		m.sweep()

		require.Equal(t, 1, m.Count())
		_, err := m.Get(idle.ID, "alice")
		require.ErrorIs(t, err, internal.ErrSessionNotFound)
		_, err = m.Get(live.ID, "bob")
		require.NoError(t, err)
	})

	t.Run("Should refresh the idle clock on access", func(t *testing.T) {
		m := newTestManager(t, time.Minute)
		s := m.Open(context.Background(), "alice")

		m.mu.Lock()
		m.sessions[s.ID].lastSeen = time.Now().Add(-2 * time.Minute)
		m.mu.Unlock()

		_, err := m.Get(s.ID, "alice")
		require.NoError(t, err)

		m.sweep()
		require.Equal(t, 1, m.Count())
	})
}
