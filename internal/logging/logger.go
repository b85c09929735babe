// Package logging configures structured logging using log/slog.
//
// Log lines go to two sinks at once: the console and an append-only file,
// so a finished import run leaves a reviewable record of every skipped row
// and the final summary.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup configures the global slog logger.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// When file is non-empty it is opened for append (created if missing) and
// every log line is written to both stdout and the file. The returned
// closer releases the file handle; it is a no-op when file is empty.
func Setup(level, format, file string) (io.Closer, error) {
	var sink io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		sink = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(sink, opts)
	} else {
		handler = slog.NewTextHandler(sink, opts)
	}

	slog.SetDefault(slog.New(handler))
	return closer, nil
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

// FromContext returns a logger enriched with request context.
//
// When the context carries a chi RequestID, the returned logger includes
// request_id in all entries so one request's log lines correlate.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}

	return logger
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
