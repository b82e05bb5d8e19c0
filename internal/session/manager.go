// Package session owns the per-user editor sessions hosted by the console.
// Each session wraps one editing controller; idle sessions are swept after a
// TTL so abandoned drafts do not pile up.
package session

import (
	"context"
	"sync"
	"time"

	"instituteweb/admin-console/internal"
	"instituteweb/admin-console/internal/editor"
	"instituteweb/admin-console/internal/schema"
	"instituteweb/admin-console/internal/store"
	"instituteweb/admin-console/internal/upload"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Session struct {
	ID         uuid.UUID
	Owner      string
	Controller *editor.Controller

	lastSeen time.Time
}

type Manager struct {
	logger *zap.Logger
	tracer trace.Tracer

	registry *schema.Registry
	store    store.Store
	gateway  upload.Gateway
	ttl      time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewManager(logger *zap.Logger, registry *schema.Registry, st store.Store, gw upload.Gateway, ttl time.Duration) *Manager {
	return &Manager{
		logger:   logger,
		tracer:   otel.Tracer("session/manager"),
		registry: registry,
		store:    st,
		gateway:  gw,
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Open creates a session owned by the given user.
func (m *Manager) Open(ctx context.Context, owner string) *Session {
	ctx, span := m.tracer.Start(ctx, "Open")
	defer span.End()
	logger := logutil.WithContext(ctx, m.logger)

	s := &Session{
		ID:         uuid.New(),
		Owner:      owner,
		Controller: editor.NewController(m.logger, m.registry, m.store, m.gateway),
		lastSeen:   time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	logger.Info("Editor session opened", zap.String("session_id", s.ID.String()), zap.String("owner", owner))
	return s
}

// Get resolves a session for its owner and refreshes the idle clock. Another
// user's session is never handed out.
func (m *Manager) Get(id uuid.UUID, owner string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, internal.ErrSessionNotFound
	}
	if s.Owner != owner {
		return nil, internal.ErrSessionNotOwned
	}

	s.lastSeen = time.Now()
	return s, nil
}

// Close removes a session. Dropping the controller discards any open draft.
func (m *Manager) Close(ctx context.Context, id uuid.UUID, owner string) error {
	ctx, span := m.tracer.Start(ctx, "Close")
	defer span.End()
	logger := logutil.WithContext(ctx, m.logger)

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return internal.ErrSessionNotFound
	}
	if s.Owner != owner {
		return internal.ErrSessionNotOwned
	}

	delete(m.sessions, id)
	logger.Info("Editor session closed", zap.String("session_id", id.String()), zap.String("owner", owner))
	return nil
}

func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartJanitor sweeps expired sessions until the context is cancelled.
func (m *Manager) StartJanitor(ctx context.Context) {
	interval := m.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			m.logger.Info("Swept idle editor session",
				zap.String("session_id", id.String()),
				zap.String("owner", s.Owner),
			)
		}
	}
}
