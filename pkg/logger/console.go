package logger

import (
	"log/slog"
	"os"
)

// NewConsoleHandler is the handler used by the command line tool. Output goes
// to stderr so that command results on stdout stay pipeable.
func NewConsoleHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}
