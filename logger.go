package castor

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with castor-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(slog.LevelError + 1),
		})),
	}
}

// LogGrow logs a capacity change on the growth path.
func (l *Logger) LogGrow(objectSize, oldCapacity, newCapacity int) {
	l.Debug("vector grown",
		"object_size", objectSize,
		"old_capacity", oldCapacity,
		"new_capacity", newCapacity,
	)
}

// LogCopy logs a structural clone.
func (l *Logger) LogCopy(count, capacity int, shrinkToFit bool) {
	l.Debug("vector copied",
		"count", count,
		"capacity", capacity,
		"shrink_to_fit", shrinkToFit,
	)
}
