package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
)

// Stepper is the part of an engine the runner needs.
type Stepper interface {
	Advance() (bool, error)
	View() domain.View
}

// Frame is one rendered moment of a run.
type Frame struct {
	View domain.View
	// Diff against the previously emitted frame; nil for the first frame.
	Diff        *domain.ViewDiff
	Transitions int
}

// FrameFunc receives frames. Returning an error aborts the run.
type FrameFunc func(Frame) error

// Stop reasons reported in Result.
const (
	StopHalted    = "halted"
	StopLimit     = "limit"
	StopCancelled = "cancelled"
	StopError     = "error"
)

// Result summarizes a finished run.
type Result struct {
	Transitions int
	Reason      string
	View        domain.View
}

// Runner handles the execution loop of a machine.
type Runner struct {
	Interval time.Duration
	MaxSteps int
	Macro    bool
	OnFrame  FrameFunc
	Logger   *slog.Logger
}

// NewRunner creates a Runner. Without options it runs flat out, with no
// limit and no frame callback.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run advances m until it stops. The initial view is emitted as the first frame.
// On cancellation Run returns the partial result, with reason StopCancelled,
// together with ctx.Err().
func (r *Runner) Run(ctx context.Context, m Stepper) (Result, error) {
	var (
		res  Result
		last *domain.View
	)

	emit := func(v domain.View) error {
		if r.OnFrame == nil {
			return nil
		}
		f := Frame{View: v, Transitions: res.Transitions}
		if last != nil {
			f.Diff = domain.Diff(last, &v)
		}
		last = &v
		if err := r.OnFrame(f); err != nil {
			return fmt.Errorf("frame handler: %w", err)
		}
		return nil
	}

	if err := emit(m.View()); err != nil {
		res.Reason = StopError
		return res, err
	}

	var tick <-chan time.Time
	if r.Interval > 0 {
		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	r.Logger.Debug("run started", "interval", r.Interval, "max_steps", r.MaxSteps)
	for {
		if r.MaxSteps > 0 && res.Transitions >= r.MaxSteps {
			res.Reason = StopLimit
			break
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return r.cancelled(ctx, m, res)
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return r.cancelled(ctx, m, res)
		}

		ok, err := m.Advance()
		if err != nil {
			res.Reason = StopError
			res.View = m.View()
			r.Logger.Warn("run failed", "transitions", res.Transitions, "err", err)
			return res, err
		}
		if !ok {
			res.Reason = StopHalted
			break
		}
		res.Transitions++

		v := m.View()
		if !r.Macro || v.Phase == domain.PhaseNormal || v.Halted {
			if err := emit(v); err != nil {
				res.Reason = StopError
				res.View = v
				return res, err
			}
		}
	}

	res.View = m.View()
	r.Logger.Debug("run finished", "reason", res.Reason, "transitions", res.Transitions)
	return res, nil
}

func (r *Runner) cancelled(ctx context.Context, m Stepper, res Result) (Result, error) {
	res.Reason = StopCancelled
	res.View = m.View()
	r.Logger.Debug("run cancelled", "transitions", res.Transitions)
	return res, ctx.Err()
}
