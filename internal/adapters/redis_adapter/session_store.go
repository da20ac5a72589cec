// internal/adapters/redis_adapter/session_store.go
package redis_a

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/stockroom-console/internal/core/domain"
	"github.com/ammerola/stockroom-console/internal/core/ports"
)

// SessionStore keeps console sessions as JSON under session:<id>.
// Every Save refreshes the TTL, so idle sessions expire and active ones don't.
type SessionStore struct {
	cache  ports.Cache
	ttl    time.Duration
	logger *slog.Logger
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store on top of the cache
func NewSessionStore(cache ports.Cache, ttl time.Duration, logger *slog.Logger) *SessionStore {
	return &SessionStore{
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

func sessionKey(id uuid.UUID) string {
	return BuildKey(PrefixSession, id.String())
}

// Save writes the whole session record. Concurrent saves are last-write-wins.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == uuid.Nil {
		return fmt.Errorf("save session: missing session id")
	}
	if err := s.cache.Set(ctx, sessionKey(session.ID), session, s.ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get loads a session, returning ports.ErrSessionNotFound when it is absent
func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	var session domain.Session
	if err := s.cache.Get(ctx, sessionKey(id), &session); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ports.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.cache.Delete(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.DebugContext(ctx, "session deleted", slog.String("session_id", id.String()))
	return nil
}
