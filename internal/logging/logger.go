// Package logging defines the structured logger used by the store, the cache
// and the CLI. The only implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "schema migrated", "from", 1, "to", 3)
type Logger interface {
	// Debug logs diagnostic detail (row counts, chunk counts).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a recoverable condition, e.g. a list fetch that fell back
	// to bundled data.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs a failure that was not returned to a caller.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
