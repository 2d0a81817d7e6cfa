package vecscan

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/vecscan/distance"
)

// Logger wraps slog.Logger with vecscan-specific helpers.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithMetric adds a metric field to the logger.
func (l *Logger) WithMetric(m distance.Metric) *Logger {
	return &Logger{
		Logger: l.Logger.With("metric", m.String()),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogSearch logs a k-NN search.
func (l *Logger) LogSearch(ctx context.Context, metric distance.Metric, queries, k int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "knn search failed",
			"metric", metric.String(),
			"queries", queries,
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "knn search completed",
			"metric", metric.String(),
			"queries", queries,
			"k", k,
		)
	}
}

// LogRangeSearch logs a range search.
func (l *Logger) LogRangeSearch(ctx context.Context, metric distance.Metric, queries, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "range search failed",
			"metric", metric.String(),
			"queries", queries,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "range search completed",
			"metric", metric.String(),
			"queries", queries,
			"results", results,
		)
	}
}

// LogNearest logs a 1-NN accelerated search.
func (l *Logger) LogNearest(ctx context.Context, queries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "nearest search failed",
			"queries", queries,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "nearest search completed",
			"queries", queries,
		)
	}
}
