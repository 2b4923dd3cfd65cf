package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/muesli/termenv"
)

// DefaultInterval paces animations on a terminal when no interval is given.
const DefaultInterval = 150 * time.Millisecond

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	Source     string // machine file or library name
	Dir        string // library directory
	Interval   time.Duration
	MaxSteps   int
	Micro      bool // draw every micro-step instead of whole transitions
	Plain      bool // never animate, even on a terminal
	Permissive bool
	Out        io.Writer
	Logger     *slog.Logger
}

// Run executes a machine until it halts, fails, hits MaxSteps or is
// interrupted. On a terminal the tape is redrawn in place; elsewhere every
// frame is printed.
func Run(ctx context.Context, opts RunOptions) error {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	cfg, err := Resolve(ctx, opts.Source, opts.Dir)
	if err != nil {
		return err
	}
	m, err := turing.New(cfg,
		turing.WithStrict(!opts.Permissive),
		turing.WithLogger(opts.Logger),
		turing.WithHooks(debugHooks(opts.Logger)),
	)
	if err != nil {
		return fmt.Errorf("error initializing machine: %w", err)
	}

	live := !opts.Plain && isTerminal(opts.Out)
	scr := newScreen(opts.Out, cfg.EmptySymbol, live)
	if live {
		tui.PrintBanner(opts.Out)
		if table, err := tui.RenderRules(m.Rules(), cfg.Halt, nil); err == nil {
			fmt.Fprint(opts.Out, table)
		}
	}

	ctx, stop := WithSignals(ctx)
	defer stop()

	res, runErr := m.Run(ctx,
		runner.WithInterval(opts.Interval),
		runner.WithMaxSteps(opts.MaxSteps),
		runner.WithMacroFrames(!opts.Micro),
		runner.WithLogger(opts.Logger),
		runner.WithFrameHandler(func(f runner.Frame) error {
			scr.draw(f.View)
			return nil
		}),
	)

	return report(opts.Out, res, runErr, Interrupted(ctx) != nil)
}

func report(w io.Writer, res runner.Result, err error, signalled bool) error {
	v := res.View
	var stepErr *domain.StepError
	switch {
	case err == nil && res.Reason == runner.StopHalted:
		printSystemMessage(w, "Halted in state '%s' after %d operations.", v.State, v.OpCounter-1)
	case err == nil && res.Reason == runner.StopLimit:
		printSystemMessage(w, "Stopped after %d micro-steps in state '%s' (limit reached).", res.Transitions, v.State)
	case isInterrupted(err) || signalled:
		printSystemMessage(w, "Interrupted at state '%s'.", v.State)
		return nil
	case errors.As(err, &stepErr):
		printSystemMessage(w, "Stuck at operation %d: %v", v.OpCounter, err)
		return err
	}
	return err
}

// screen draws frames, overwriting the previous one when live.
type screen struct {
	out   *termenv.Output
	empty domain.Symbol
	live  bool
	drawn int
}

func newScreen(w io.Writer, empty domain.Symbol, live bool) *screen {
	out := termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	if live {
		out = termenv.NewOutput(w)
	}
	return &screen{out: out, empty: empty, live: live}
}

func (s *screen) draw(v domain.View) {
	lines := []string{tui.RenderStatus(v, s.out.Profile)}
	lines = append(lines, strings.Split(tui.RenderTape(v, s.empty, s.out.Profile), "\n")...)

	if s.live && s.drawn > 0 {
		s.out.CursorPrevLine(s.drawn)
	}
	for _, line := range lines {
		if s.live {
			s.out.ClearLine()
		}
		fmt.Fprintln(s.out, line)
	}
	s.drawn = len(lines)
}
