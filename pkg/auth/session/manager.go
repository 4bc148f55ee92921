package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/dhruvmehta-dev/storefront-backend/pkg/config"
	redisclient "github.com/dhruvmehta-dev/storefront-backend/pkg/redis"
)

const sessionTokenBytes = 32

var ErrUnknownSession = errors.New("unknown session")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager issues and tracks anonymous shopper sessions. A session ID is
// an opaque random token carried in a cookie; Redis holds liveness with
// a sliding TTL so abandoned carts eventually stop resolving an identity.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// Checker exposes the read-only surface needed by middleware.
type Checker interface {
	Validate(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
	}, nil
}

// Issue creates a new anonymous session and registers it in Redis.
func (m *Manager) Issue(ctx context.Context) (string, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return "", err
	}
	if err := m.store.Set(ctx, m.keyer.SessionKey(sessionID), "1", m.ttl); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Validate reports whether the session is still live, extending its TTL
// when it is.
func (m *Manager) Validate(ctx context.Context, sessionID string) (bool, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, nil
	}
	key := m.keyer.SessionKey(sessionID)
	if _, err := m.store.Get(ctx, key); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := m.store.Set(ctx, key, "1", m.ttl); err != nil {
		return false, err
	}
	return true, nil
}

// Revoke drops the session, typically after it is merged into a user.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrUnknownSession
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

func generateSessionID() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
