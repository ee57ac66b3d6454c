// Package logging defines a minimal structured-logging interface used across
// the server. Implementations wrap log/slog and go.uber.org/zap.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "env", env)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backends accepted by New.
const (
	BackendZap  = "zap"
	BackendSlog = "slog"
)

// New builds a Logger for the given backend. level is one of debug, info,
// warn or error; env "production" selects JSON output.
func New(backend, level, env string) (Logger, error) {
	switch strings.ToLower(backend) {
	case BackendZap, "":
		return NewZapLogger(level, env)
	case BackendSlog:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			lvl = slog.LevelInfo
		}
		opts := &slog.HandlerOptions{Level: lvl}
		var h slog.Handler
		if env == "production" {
			h = slog.NewJSONHandler(os.Stdout, opts)
		} else {
			h = slog.NewTextHandler(os.Stdout, opts)
		}
		return NewSlogLogger(slog.New(h)), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// Sync flushes l if its backend buffers output.
func Sync(l Logger) error {
	if s, ok := l.(interface{ Sync() error }); ok {
		return s.Sync()
	}
	return nil
}
