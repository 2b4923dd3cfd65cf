package runner

import (
	"log/slog"
	"time"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInterval sets the delay between two micro-steps. Zero runs as fast as possible.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.Interval = d
	}
}

// WithMaxSteps stops the run after n transitions. Zero means no limit.
func WithMaxSteps(n int) Option {
	return func(r *Runner) {
		r.MaxSteps = n
	}
}

// WithMacroFrames only emits frames at macro-step boundaries (phase Normal)
// and on halt, instead of after every micro-step.
func WithMacroFrames(macro bool) Option {
	return func(r *Runner) {
		r.Macro = macro
	}
}

// WithFrameHandler configures the callback receiving frames.
func WithFrameHandler(fn FrameFunc) Option {
	return func(r *Runner) {
		r.OnFrame = fn
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}
