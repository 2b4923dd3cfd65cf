package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// MachineService defines the operations a driver (HTTP, MCP) performs on
// hosted machines. Every method is keyed by session ID.
type MachineService interface {
	// Create compiles cfg and starts a new session.
	// Construction failures are returned as *domain.ConstructionError or
	// *domain.AggregateError.
	Create(ctx context.Context, sessionID string, cfg domain.Config, strict bool) (domain.View, error)

	// Advance performs up to n micro-steps, stopping early once the machine
	// halts. It returns the number of transitions taken.
	Advance(ctx context.Context, sessionID string, n int) (domain.View, int, error)

	// Reset restores the initial snapshot of a session.
	Reset(ctx context.Context, sessionID string) (domain.View, error)

	// View returns the current snapshot of a session.
	View(ctx context.Context, sessionID string) (domain.View, error)

	// Graph renders the rule graph of a session ("dot" or "mermaid").
	Graph(ctx context.Context, sessionID string, format string) (string, error)

	// Delete ends a session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of every known session.
	List(ctx context.Context) ([]string, error)
}
