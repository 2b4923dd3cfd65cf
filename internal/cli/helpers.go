package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"golang.org/x/term"
)

// NewLogger builds the CLI logger: text on stderr at level, plus a JSON copy
// in logFile when it is set. The returned closer releases the file.
func NewLogger(level, logFile string) (*slog.Logger, io.Closer, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" {
		return logging.New(lvl), io.NopCloser(nil), nil
	}

	h, closer, err := logging.NewFileHandler(logFile, slog.LevelDebug)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(lvl, h), closer, nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(e *domain.StepEvent) {
			logger.Debug("step completed", "state", e.State, "op_counter", e.OpCounter)
		},
		OnError: func(e *domain.ErrorEvent) {
			logger.Debug("step failed", "phase", e.Phase, "state", e.State, "err", e.Err)
		},
	}
}

// isInterrupted reports whether err comes from the run context ending,
// by signal or deadline, rather than from the machine.
func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
