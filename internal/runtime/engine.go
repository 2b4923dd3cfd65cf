package runtime

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

// Engine is the micro-stepped state machine driving one Turing machine.
// It is not safe for concurrent use; the driver owns it exclusively.
type Engine struct {
	table    *compiler.RuleTable
	start    domain.State
	halts    map[domain.State]struct{}
	haltList []domain.State
	cells    []domain.Symbol
	head     int
	empty    domain.Symbol

	tape      *Tape
	current   domain.State
	phase     domain.Phase
	read      domain.Symbol
	hasRead   bool
	rule      domain.Transition
	headOp    domain.HeadOp
	opCounter int

	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. Phase transitions are logged at debug level.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine loads cfg on top of an already compiled table.
// Strict tables also restrict tape writes to the table's alphabet.
func NewEngine(table *compiler.RuleTable, cfg domain.Config, opts ...EngineOption) (*Engine, error) {
	cells, head := cfg.InitialTape()
	e := &Engine{
		table:  table,
		start:  cfg.Start,
		halts:  make(map[domain.State]struct{}, len(cfg.Halt)),
		cells:  cells,
		head:   head,
		empty:  cfg.EmptySymbol,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, h := range cfg.Halt {
		if _, dup := e.halts[h]; dup {
			continue
		}
		e.halts[h] = struct{}{}
		e.haltList = append(e.haltList, h)
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) newTape() (*Tape, error) {
	var opts []TapeOption
	if e.table.Strict() {
		opts = append(opts, WithAlphabet(e.table.Symbols()...))
	}
	return NewTape(e.empty, e.cells, e.head, opts...)
}

// Reset restores the initial snapshot: start state, initial tape, phase
// Normal, counter 1. The rule table is kept.
func (e *Engine) Reset() error {
	tape, err := e.newTape()
	if err != nil {
		return err
	}
	e.tape = tape
	e.current = e.start
	e.phase = domain.PhaseNormal
	e.read, e.hasRead = "", false
	e.rule = domain.Transition{}
	e.headOp = domain.HeadIdle
	e.opCounter = 1
	return nil
}

// Advance performs exactly one phase transition.
//
// It returns true when a transition happened, including the first one into
// Halted, and false once the engine is halted. A missing state or rule
// returns a *domain.StepError and leaves the engine untouched.
func (e *Engine) Advance() (bool, error) {
	from := e.phase

	switch e.phase {
	case domain.PhaseHalted:
		return false, nil

	case domain.PhaseNormal:
		if _, ok := e.halts[e.current]; ok {
			e.phase = domain.PhaseHalted
			e.logger.Debug("machine halted", "state", e.current, "op_counter", e.opCounter)
			e.emitPhase(from)
			if e.hooks.OnHalt != nil {
				e.hooks.OnHalt(&domain.StepEvent{EventBase: e.base(domain.EventHalt), State: e.current, OpCounter: e.opCounter})
			}
			return true, nil
		}
		if !e.table.HasState(e.current) {
			return false, e.fail(&domain.StepError{Phase: from, State: e.current, Err: domain.ErrMissingState})
		}
		e.read, e.hasRead = "", false
		e.phase = domain.PhaseReadState

	case domain.PhaseReadState:
		e.read, e.hasRead = e.tape.Read(), true
		e.phase = domain.PhaseReadSymbol

	case domain.PhaseReadSymbol:
		tr, ok := e.table.Get(e.current, e.read)
		if !ok {
			return false, e.fail(&domain.StepError{Phase: from, State: e.current, Symbol: e.read, Err: domain.ErrMissingRule})
		}
		if err := e.tape.Write(tr.ToSymbol); err != nil {
			return false, e.fail(err)
		}
		e.rule = tr
		e.phase = domain.PhaseClearSymbol

	case domain.PhaseClearSymbol:
		e.headOp = e.rule.Action.Op()
		e.phase = domain.PhaseWriteSymbol

	case domain.PhaseWriteSymbol:
		e.tape.Move(e.rule.Action)
		e.phase = domain.PhaseMoveHead

	case domain.PhaseMoveHead:
		e.phase = domain.PhaseMovedHead

	case domain.PhaseMovedHead:
		e.current = e.rule.ToState
		e.headOp = domain.HeadIdle
		e.phase = domain.PhaseMoveState

	case domain.PhaseMoveState:
		e.opCounter++
		e.phase = domain.PhaseNormal
		e.emitPhase(from)
		if e.hooks.OnStep != nil {
			e.hooks.OnStep(&domain.StepEvent{EventBase: e.base(domain.EventStep), State: e.current, OpCounter: e.opCounter})
		}
		return true, nil
	}

	e.emitPhase(from)
	return true, nil
}

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t}
}

func (e *Engine) emitPhase(from domain.Phase) {
	e.logger.Debug("phase transition",
		"from", from.String(),
		"to", e.phase.String(),
		"state", e.current,
		"head", e.tape.Head(),
		"op_counter", e.opCounter)

	if e.hooks.OnPhase != nil {
		e.hooks.OnPhase(&domain.PhaseEvent{
			EventBase: e.base(domain.EventPhase),
			From:      from,
			To:        e.phase,
			State:     e.current,
			OpCounter: e.opCounter,
		})
	}
}

func (e *Engine) fail(err error) error {
	e.logger.Warn("advance failed", "phase", e.phase.String(), "state", e.current, "error", err)
	if e.hooks.OnError != nil {
		e.hooks.OnError(&domain.ErrorEvent{EventBase: e.base(domain.EventError), Phase: e.phase, State: e.current, Err: err})
	}
	return err
}

// Phase returns the current phase.
func (e *Engine) Phase() domain.Phase { return e.phase }

// Current returns the current control state.
func (e *Engine) Current() domain.State { return e.current }

// OpCounter returns 1 + the number of completed macro-steps.
func (e *Engine) OpCounter() int { return e.opCounter }

// HeadOp returns the visual marker under the head.
func (e *Engine) HeadOp() domain.HeadOp { return e.headOp }

// Halted reports whether the engine reached its absorbing phase.
func (e *Engine) Halted() bool { return e.phase == domain.PhaseHalted }

// ReadSymbol returns the symbol cached during the current macro-step.
func (e *Engine) ReadSymbol() (domain.Symbol, bool) { return e.read, e.hasRead }

// Head returns the tape head index.
func (e *Engine) Head() int { return e.tape.Head() }

// Snapshot returns a copy of the tape cells.
func (e *Engine) Snapshot() []domain.Symbol { return e.tape.Snapshot() }

// Table returns the compiled rules.
func (e *Engine) Table() *compiler.RuleTable { return e.table }

// Start returns the configured start state.
func (e *Engine) Start() domain.State { return e.start }

// Halts returns the configured halt states.
func (e *Engine) Halts() []domain.State {
	out := make([]domain.State, len(e.haltList))
	copy(out, e.haltList)
	return out
}

// View returns the renderer snapshot.
func (e *Engine) View() domain.View {
	v := domain.View{
		State:       e.current,
		Phase:       e.phase,
		Description: e.phase.Description(),
		OpCounter:   e.opCounter,
		HeadOp:      e.headOp,
		Tape:        e.tape.Snapshot(),
		Head:        e.tape.Head(),
		Origin:      e.tape.Origin(),
		Halted:      e.phase == domain.PhaseHalted,
	}
	if e.hasRead {
		s := e.read
		v.ReadSymbol = &s
	}
	return v
}

// Load compiles cfg and returns an engine ready to run. In strict mode every
// violation is reported at once, as a *domain.AggregateError when there is
// more than one.
func Load(cfg domain.Config, strict bool, opts ...EngineOption) (*Engine, error) {
	if strict {
		switch errs := compiler.Check(cfg); len(errs) {
		case 0:
		case 1:
			return nil, errs[0]
		default:
			return nil, &domain.AggregateError{Errors: errs}
		}
	}
	table, err := compiler.Compile(cfg, strict)
	if err != nil {
		return nil, err
	}
	return NewEngine(table, cfg, opts...)
}
