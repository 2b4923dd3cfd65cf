package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/turing/pkg/domain"
)

// Library implements ports.WritableLibrary using an in-memory map.
type Library struct {
	mu       sync.RWMutex
	machines map[string]domain.Machine
}

// NewLibrary creates a library seeded with machines.
func NewLibrary(machines ...domain.Machine) *Library {
	l := &Library{machines: make(map[string]domain.Machine, len(machines))}
	for _, m := range machines {
		m.Config = m.Config.Clone()
		l.machines[m.Name] = m
	}
	return l
}

// Get retrieves a machine by name.
func (l *Library) Get(ctx context.Context, name string) (*domain.Machine, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.machines[name]
	if !ok {
		return nil, fmt.Errorf("machine %q: %w", name, domain.ErrMachineNotFound)
	}
	m.Config = m.Config.Clone()
	return &m, nil
}

// List returns all machine names.
func (l *Library) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.machines))
	for k := range l.machines {
		names = append(names, k)
	}
	sort.Strings(names) // Deterministic order
	return names, nil
}

// Save stores or replaces a machine.
func (l *Library) Save(ctx context.Context, m *domain.Machine) error {
	if m.Name == "" {
		return fmt.Errorf("machine missing name")
	}
	cp := *m
	cp.Config = m.Config.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.machines[m.Name] = cp
	return nil
}
