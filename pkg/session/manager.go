package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// live is an engine kept in memory together with the record it was built from.
type live struct {
	engine  *runtime.Engine
	steps   int
	updated time.Time
}

// Manager hosts machines by session ID, ensuring safe concurrent operations.
//
// Only the configuration and the number of micro-steps taken are persisted.
// Engines are deterministic, so a session missing from the in-memory cache
// (after a restart, or when another replica advanced it) is rebuilt by replay.
// Manager implements ports.MachineService.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	cacheMu sync.Mutex
	cache   map[string]*live

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	now     func() time.Time
}

var _ ports.MachineService = (*Manager)(nil)

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL bounds how long a distributed lock is held if its owner dies.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager and the engines it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithLifecycleHooks registers hooks on every engine the Manager builds.
// Hooks also fire while a session is being restored by replay.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// NewManager creates a new Session Manager with the given persistence store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		cache:   make(map[string]*live),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(), // Default to no-op
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) engineOptions(sessionID string) []runtime.EngineOption {
	return []runtime.EngineOption{
		runtime.WithLogger(m.logger.With("session_id", sessionID)),
		runtime.WithLifecycleHooks(m.hooks),
	}
}

// Create compiles cfg and stores a new session, replacing any previous one
// with the same ID.
func (m *Manager) Create(ctx context.Context, sessionID string, cfg domain.Config, strict bool) (domain.View, error) {
	var view domain.View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		engine, err := runtime.Load(cfg, strict, m.engineOptions(sessionID)...)
		if err != nil {
			return err
		}

		s := &domain.Session{
			ID:        sessionID,
			Config:    cfg.Clone(),
			Strict:    strict,
			UpdatedAt: m.now().UTC(),
		}
		if err := m.store.Save(ctx, sessionID, s); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		m.remember(sessionID, engine, s)
		m.logger.Info("session created", "session_id", sessionID, "strict", strict, "rules", len(cfg.Rules))

		view = engine.View()
		return nil
	})
	return view, err
}

// Advance performs up to n micro-steps (at least one). It stops at the
// first call that reports no transition, i.e. once the machine is halted.
// On a step error the steps taken before it are kept.
func (m *Manager) Advance(ctx context.Context, sessionID string, n int) (domain.View, int, error) {
	if n < 1 {
		n = 1
	}

	var (
		view  domain.View
		taken int
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, engine, err := m.open(ctx, sessionID)
		if err != nil {
			return err
		}

		var stepErr error
		for taken < n {
			if err := ctx.Err(); err != nil {
				stepErr = err
				break
			}
			ok, err := engine.Advance()
			if err != nil {
				stepErr = err
				break
			}
			if !ok {
				break
			}
			taken++
		}

		s.Steps += taken
		s.Error = ""
		if stepErr != nil {
			s.Error = stepErr.Error()
		}
		if err := m.persist(ctx, s, engine); err != nil {
			return err
		}

		view = engine.View()
		return stepErr
	})
	return view, taken, err
}

// Reset restores the initial snapshot of a session.
func (m *Manager) Reset(ctx context.Context, sessionID string) (domain.View, error) {
	var view domain.View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, engine, err := m.open(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := engine.Reset(); err != nil {
			return err
		}
		s.Steps = 0
		s.Error = ""
		if err := m.persist(ctx, s, engine); err != nil {
			return err
		}
		view = engine.View()
		return nil
	})
	return view, err
}

// View returns the current snapshot of a session.
func (m *Manager) View(ctx context.Context, sessionID string) (domain.View, error) {
	var view domain.View
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		_, engine, err := m.open(ctx, sessionID)
		if err != nil {
			return err
		}
		view = engine.View()
		return nil
	})
	return view, err
}

// Graph renders the rule graph of a session with its current state highlighted.
func (m *Manager) Graph(ctx context.Context, sessionID string, format string) (string, error) {
	var out string
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		_, engine, err := m.open(ctx, sessionID)
		if err != nil {
			return err
		}
		model := graph.FromTable(engine.Table(), engine.Halts(), engine.Start())
		out, err = graph.Render(format, model, &graph.Overlay{Current: engine.Current(), Phase: engine.Phase()})
		return err
	})
	return out, err
}

// Session returns the stored record of a session.
func (m *Manager) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	return m.store.Load(ctx, sessionID)
}

// Delete ends a session.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.forget(sessionID)
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// open loads the stored record and returns a matching engine, from cache
// when the record is unchanged and by replay otherwise. The caller holds the
// session lock.
func (m *Manager) open(ctx context.Context, sessionID string) (*domain.Session, *runtime.Engine, error) {
	s, err := m.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			m.forget(sessionID)
			return nil, nil, fmt.Errorf("session %q: %w", sessionID, domain.ErrSessionNotFound)
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	m.cacheMu.Lock()
	cached, ok := m.cache[sessionID]
	m.cacheMu.Unlock()
	if ok && cached.steps == s.Steps && cached.updated.Equal(s.UpdatedAt) {
		return s, cached.engine, nil
	}

	engine, err := m.replay(s)
	if err != nil {
		return nil, nil, err
	}
	m.remember(sessionID, engine, s)
	return s, engine, nil
}

// replay rebuilds an engine and advances it by the recorded step count.
func (m *Manager) replay(s *domain.Session) (*runtime.Engine, error) {
	engine, err := runtime.Load(s.Config, s.Strict, m.engineOptions(s.ID)...)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild session %q: %w", s.ID, err)
	}
	for i := 0; i < s.Steps; i++ {
		if _, err := engine.Advance(); err != nil {
			return nil, fmt.Errorf("failed to replay session %q at step %d: %w", s.ID, i, err)
		}
	}
	m.logger.Debug("session restored", "session_id", s.ID, "steps", s.Steps)
	return engine, nil
}

func (m *Manager) persist(ctx context.Context, s *domain.Session, engine *runtime.Engine) error {
	s.UpdatedAt = m.now().UTC()
	if err := m.store.Save(ctx, s.ID, s); err != nil {
		// The engine moved ahead of the stored record; drop it so the next
		// call replays from the store.
		m.forget(s.ID)
		return fmt.Errorf("failed to save session: %w", err)
	}
	m.remember(s.ID, engine, s)
	return nil
}

func (m *Manager) remember(sessionID string, engine *runtime.Engine, s *domain.Session) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	m.cache[sessionID] = &live{engine: engine, steps: s.Steps, updated: s.UpdatedAt}
}

func (m *Manager) forget(sessionID string) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	delete(m.cache, sessionID)
}
