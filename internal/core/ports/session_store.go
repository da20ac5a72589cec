// internal/core/ports/session_store.go
package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ammerola/stockroom-console/internal/core/domain"
)

// ErrSessionNotFound is returned when a session id is unknown or expired
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists console sessions between requests
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
