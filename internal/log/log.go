// Package log configures structured logging for casewatch using log/slog.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Level maps the verbosity flags to a slog level. Quiet wins over verbose.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Setup configures the default slog logger on stderr and returns it.
func Setup(verbose, quiet bool) *slog.Logger {
	return SetupWriter(os.Stderr, verbose, quiet)
}

// SetupWriter is Setup with a custom destination.
func SetupWriter(w io.Writer, verbose, quiet bool) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(verbose, quiet),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
