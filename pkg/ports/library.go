package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// MachineLibrary defines how named machine configurations are retrieved.
// This allows the storage layer (Loam, FS, Memory) to be decoupled.
type MachineLibrary interface {
	// Get loads a machine by name.
	// Returns domain.ErrMachineNotFound if no such machine exists.
	Get(ctx context.Context, name string) (*domain.Machine, error)

	// List returns the names of every machine in the library.
	List(ctx context.Context) ([]string, error)
}

// WritableLibrary is a MachineLibrary that can also store machines.
type WritableLibrary interface {
	MachineLibrary
	Save(ctx context.Context, m *domain.Machine) error
}
