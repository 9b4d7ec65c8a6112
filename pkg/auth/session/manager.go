package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/campushub/portal-backend/pkg/config"
	redisclient "github.com/campushub/portal-backend/pkg/redis"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
}

// Checker exposes the read-only surface needed by HTTP middleware and the
// websocket handshake.
type Checker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// Manager tracks live sessions in Redis, keyed by JWT ID. A token is only
// honored while its session marker exists, so logout revokes access before
// the JWT itself expires.
type Manager struct {
	store sessionStore
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.AccessTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive")
	}
	return &Manager{store: client, ttl: ttl}, nil
}

// Create registers a session marker for the given JWT ID.
func (m *Manager) Create(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Set(ctx, m.store.SessionKey(sessionID), "1", m.ttl)
}

// HasSession reports whether the session marker still exists.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, nil
	}
	return m.store.Exists(ctx, m.store.SessionKey(sessionID))
}

// Revoke deletes the session marker tied to the JWT ID.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.store.SessionKey(sessionID))
}
