package colmeta

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with catalog-specific field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithTable adds a table field to the logger.
func (l *Logger) WithTable(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", name),
	}
}

// LogSave logs a save operation.
func (l *Logger) LogSave(ctx context.Context, table string, columns, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"table", table,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "table metadata saved",
		"table", table,
		"columns", columns,
		"bytes", bytes,
	)
}

// LogLoad logs a load operation. Skipped entries are reported at warn level.
func (l *Logger) LogLoad(ctx context.Context, table string, columns int, skipped []SkippedEntry, err error) {
	switch {
	case err != nil:
		l.ErrorContext(ctx, "load failed",
			"table", table,
			"error", err,
		)
	case len(skipped) > 0:
		l.WarnContext(ctx, "table metadata loaded with skipped entries",
			"table", table,
			"columns", columns,
			"skipped", len(skipped),
		)
	default:
		l.DebugContext(ctx, "table metadata loaded",
			"table", table,
			"columns", columns,
		)
	}
}

// LogScan logs a scan operation.
func (l *Logger) LogScan(ctx context.Context, table string, rows, columns int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "scan failed",
			"table", table,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "table scanned",
		"table", table,
		"rows", rows,
		"columns", columns,
		"elapsed", elapsed,
	)
}
