package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// Interrupt is the cancellation cause of a context stopped by a signal.
type Interrupt struct {
	Signal os.Signal
}

func (i *Interrupt) Error() string {
	return "interrupted by " + i.Signal.String()
}

// WithSignals returns a copy of parent that is cancelled on SIGINT or SIGTERM,
// with the signal recorded as an *Interrupt cause. Call stop to release the
// signal handler.
func WithSignals(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			cancel(&Interrupt{Signal: sig})
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(nil) }
}

// Interrupted returns the signal that cancelled ctx, or nil.
func Interrupted(ctx context.Context) os.Signal {
	var intr *Interrupt
	if errors.As(context.Cause(ctx), &intr) {
		return intr.Signal
	}
	return nil
}
