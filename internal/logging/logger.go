// Package logging provides structured logging configuration using log/slog.
//
// Every pipeline run carries a run ID on its context so that all records
// emitted during one load can be correlated in the log sink.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const ctxKeyRunID contextKey = "run_id"

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Records always go to stdout. When file is non-empty they are also appended
// to that file; the returned closer releases it and must be called on exit.
func Setup(level, format, file string) (io.Closer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", file, err)
		}
		out = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	slog.SetDefault(slog.New(NewHandler(out, level, format)))
	return closer, nil
}

// NewHandler builds the slog handler used by Setup for an arbitrary writer.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	if strings.ToLower(format) == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRunID returns a context tagged with a fresh run ID, and the ID itself.
func WithRunID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, ctxKeyRunID, id), id
}

// RunID extracts the run ID from ctx, or "" when none was set.
func RunID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRunID).(string); ok {
		return v
	}
	return ""
}

// FromContext returns a logger enriched with run context.
//
// Usage:
//
//	logger := logging.FromContext(ctx)
//	logger.Info("table loaded", "table", "valuations", "rows", n)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if id := RunID(ctx); id != "" {
		logger = logger.With("run_id", id)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	stageLogger := logging.WithFields(ctx, "stage", "clean")
//	stageLogger.Info("stage started")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
