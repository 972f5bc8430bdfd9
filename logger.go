package collgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with collgo-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithKind adds an allocator kind field to the logger.
func (l *Logger) WithKind(kind string) *Logger {
	return &Logger{
		Logger: l.Logger.With("kind", kind),
	}
}

// WithContainer adds a container name field to the logger.
func (l *Logger) WithContainer(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("container", name),
	}
}

// LogAcquire logs an allocator acquisition.
func (l *Logger) LogAcquire(ctx context.Context, kind string, requested, granted int) {
	if granted == 0 {
		l.WarnContext(ctx, "acquire failed",
			"kind", kind,
			"requested", requested,
		)
	} else {
		l.DebugContext(ctx, "acquire completed",
			"kind", kind,
			"requested", requested,
			"granted", granted,
		)
	}
}

// LogRelease logs an allocator release.
func (l *Logger) LogRelease(ctx context.Context, kind string, bytes int) {
	l.DebugContext(ctx, "release completed",
		"kind", kind,
		"bytes", bytes,
	)
}

// LogGrow logs a container capacity change.
func (l *Logger) LogGrow(ctx context.Context, container string, from, to int) {
	l.DebugContext(ctx, "capacity changed",
		"container", container,
		"from", from,
		"to", to,
	)
}

// LogRebuild logs a hash table rebuild.
func (l *Logger) LogRebuild(ctx context.Context, from, to, tombstones int) {
	l.DebugContext(ctx, "rebuild completed",
		"from", from,
		"to", to,
		"tombstones", tombstones,
	)
}
