package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// New creates a configured application logger.
// It writes to Stderr (to separate from Stdout flow UI/JSON-RPC).
// It standardizes common keys (e.g., "error" -> "err").
// Extra handlers receive every record as well.
func New(level slog.Level, extra ...slog.Handler) *slog.Logger {
	return NewWithWriter(os.Stderr, level, extra...)
}

// NewWithWriter is New with an explicit terminal writer.
func NewWithWriter(w io.Writer, level slog.Level, extra ...slog.Handler) *slog.Logger {
	terminal := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})
	if len(extra) == 0 {
		return slog.New(terminal)
	}

	handlers := append([]slog.Handler{terminal}, extra...)
	return slog.New(slogmulti.Fanout(handlers...))
}

// NewFileHandler opens path for appending and returns a JSON handler writing to it.
// The caller closes the returned file.
func NewFileHandler(path string, level slog.Level) (slog.Handler, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	h := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})
	return h, f, nil
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	// Standardize 'error' key to 'err'
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}
