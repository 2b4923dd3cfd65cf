package turing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/runtime"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/loader"
	"github.com/aretw0/turing/pkg/runner"
)

// Machine is the high-level entry point for the library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Machine struct {
	engine *runtime.Engine
	cfg    domain.Config
	strict bool
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option defines a functional option for configuring a Machine.
type Option func(*Machine)

// WithLogger sets a custom structured logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithStrict selects strict (default) or permissive validation.
func WithStrict(strict bool) Option {
	return func(m *Machine) {
		m.strict = strict
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// New compiles cfg and returns a machine at its initial snapshot.
// In strict mode every violation is reported, as a *domain.ConstructionError
// or a *domain.AggregateError when there are several.
func New(cfg domain.Config, opts ...Option) (*Machine, error) {
	m := &Machine{
		cfg:    cfg.Clone(),
		strict: true,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	engine, err := runtime.Load(m.cfg, m.strict,
		runtime.WithLogger(m.logger),
		runtime.WithLifecycleHooks(m.hooks),
	)
	if err != nil {
		return nil, err
	}
	m.engine = engine
	return m, nil
}

// Open loads a YAML or JSON machine file and compiles it.
func Open(path string, opts ...Option) (*Machine, error) {
	cfg, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	m, err := New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Advance performs exactly one micro-step. It returns false once the machine
// is halted. A *domain.StepError leaves the machine unchanged.
func (m *Machine) Advance() (bool, error) {
	return m.engine.Advance()
}

// Step advances to the end of the current macro-step: the next Normal phase,
// or Halted. It returns the number of micro-steps taken.
func (m *Machine) Step() (int, error) {
	n := 0
	for {
		ok, err := m.engine.Advance()
		if err != nil || !ok {
			return n, err
		}
		n++
		if p := m.engine.Phase(); p == domain.PhaseNormal || p == domain.PhaseHalted {
			return n, nil
		}
	}
}

// Run drives the machine with a runner until it halts, fails, reaches the
// configured limit, or ctx is cancelled.
func (m *Machine) Run(ctx context.Context, opts ...runner.Option) (runner.Result, error) {
	opts = append([]runner.Option{runner.WithLogger(m.logger)}, opts...)
	return runner.NewRunner(opts...).Run(ctx, m.engine)
}

// Reset restores the initial tape, head, state and counter.
func (m *Machine) Reset() error {
	return m.engine.Reset()
}

// View returns the snapshot a renderer needs.
func (m *Machine) View() domain.View {
	return m.engine.View()
}

// Phase returns the current phase.
func (m *Machine) Phase() domain.Phase { return m.engine.Phase() }

// State returns the current state.
func (m *Machine) State() domain.State { return m.engine.Current() }

// OpCounter returns the 1-based number of the macro-step in progress.
func (m *Machine) OpCounter() int { return m.engine.OpCounter() }

// Halted reports whether the machine reached a halt state.
func (m *Machine) Halted() bool { return m.engine.Halted() }

// Tape returns a copy of the materialized cells and the head index into them.
func (m *Machine) Tape() ([]domain.Symbol, int) {
	return m.engine.Snapshot(), m.engine.Head()
}

// Config returns a copy of the configuration the machine was built from.
func (m *Machine) Config() domain.Config {
	return m.cfg.Clone()
}

// Rules returns the rules in input order. Permissive machines keep
// duplicates here even though only the last one is ever applied.
func (m *Machine) Rules() []domain.Rule {
	return m.engine.Table().Rules()
}

// Graph renders the state graph ("dot" or "mermaid") with the current state
// colored by phase.
func (m *Machine) Graph(format string) (string, error) {
	model := graph.FromTable(m.engine.Table(), m.engine.Halts(), m.engine.Start())
	return graph.Render(format, model, &graph.Overlay{Current: m.engine.Current(), Phase: m.engine.Phase()})
}

// PreviewResult is the graph of a configuration being edited.
type PreviewResult struct {
	Graph  string
	Errors []error // strict violations; when present the graph is drawn permissively
}

// Valid reports whether the configuration passed strict validation.
func (p PreviewResult) Valid() bool { return len(p.Errors) == 0 }

// Preview validates cfg strictly and renders its graph, falling back to a
// permissive compile so that incomplete programs can still be drawn.
func Preview(cfg domain.Config, format string) (PreviewResult, error) {
	p, err := graph.PreviewConfig(cfg, format)
	if err != nil {
		return PreviewResult{}, err
	}
	return PreviewResult{Graph: p.Graph, Errors: p.Errors}, nil
}
