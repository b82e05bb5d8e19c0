package auth

import (
	"context"
	"testing"
	"time"

	"instituteweb/admin-console/internal"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, expiration time.Duration) *Service {
	t.Helper()

	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	staff := []Staff{
		{Username: "alice", Role: "admin", PasswordHash: hash},
		{Username: "bob", Role: "editor", PasswordHash: hash},
	}
	return NewService(zap.NewNop(), "test-secret", expiration, staff)
}

func TestService_Login(t *testing.T) {
	s := newTestService(t, time.Hour)

	t.Run("Should issue a token for valid credentials", func(t *testing.T) {
		token, err := s.Login(context.Background(), "alice", "hunter2")
		require.NoError(t, err)
		require.NotEmpty(t, token)
	})

	t.Run("Should reject a wrong password", func(t *testing.T) {
		_, err := s.Login(context.Background(), "alice", "wrong")
		require.ErrorIs(t, err, internal.ErrInvalidCredentials)
	})

	t.Run("Should reject an unknown user", func(t *testing.T) {
		_, err := s.Login(context.Background(), "mallory", "hunter2")
		require.ErrorIs(t, err, internal.ErrInvalidCredentials)
	})
}

func TestService_Parse(t *testing.T) {
	t.Run("Should round-trip the staff identity", func(t *testing.T) {
		s := newTestService(t, time.Hour)

		token, err := s.Login(context.Background(), "bob", "hunter2")
		require.NoError(t, err)

		staff, err := s.Parse(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, "bob", staff.GetUsername())
		require.Equal(t, "editor", staff.GetRole())
	})

	t.Run("Should reject an expired token", func(t *testing.T) {
		s := newTestService(t, -time.Minute)

		token, err := s.Login(context.Background(), "alice", "hunter2")
		require.NoError(t, err)

		_, err = s.Parse(context.Background(), token)
		require.ErrorIs(t, err, internal.ErrInvalidToken)
	})

	t.Run("Should reject a token signed with another secret", func(t *testing.T) {
		s := newTestService(t, time.Hour)
		other := NewService(zap.NewNop(), "other-secret", time.Hour, nil)

		token, err := s.Login(context.Background(), "alice", "hunter2")
		require.NoError(t, err)

		_, err = other.Parse(context.Background(), token)
		require.ErrorIs(t, err, internal.ErrInvalidToken)
	})

	t.Run("Should reject garbage", func(t *testing.T) {
		s := newTestService(t, time.Hour)

		_, err := s.Parse(context.Background(), "not-a-token")
		require.ErrorIs(t, err, internal.ErrInvalidToken)
	})
}
