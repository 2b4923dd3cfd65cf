package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// SessionStore defines the interface for persisting driven machines.
// A stored session is enough to rebuild the engine by replay, which enables
// "Stop & Resume" across restarts.
type SessionStore interface {
	// Save persists the session for a given session ID.
	Save(ctx context.Context, sessionID string, session *domain.Session) error

	// Load retrieves the session for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of every stored session.
	List(ctx context.Context) ([]string, error)
}
