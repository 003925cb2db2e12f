// Package logging defines the structured-logging interface used across the
// server and its two backends, log/slog and zap.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// Logger is a context-aware, structured logger. The variadic args are
// key-value pairs:
//
//	log.Info(ctx, "listening", "addr", addr)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

const (
	FormatJSON = "json"
	FormatZap  = "zap"
)

// New returns a logger writing to w in the given format. Unknown formats
// fall back to slog JSON.
func New(format string, w io.Writer, level slog.Level) (Logger, error) {
	if format == FormatZap {
		return NewZapLogger(w, level)
	}
	return NewJSONSlogLogger(w, level), nil
}

// ForModule tags every record of the returned logger with module=name.
func ForModule(l Logger, name string) Logger {
	return l.With("module", name)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
