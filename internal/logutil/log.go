// Package logutil carries a zerolog logger through contexts and configures the root logger.
package logutil

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/oops"
)

type key byte

const loggerKey = key(1)

// WithLogger stores logger on ctx.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetOrDefault returns the logger stored on ctx, then the one attached by
// zerolog's hlog handlers, then the global logger.
func GetOrDefault(ctx context.Context) zerolog.Logger {
	if v, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
		return v
	}
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return log.Logger
}

// New builds the process logger. format is "json" or "console".
func New(w io.Writer, level, format string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "workoutlog").Logger()
}

// Error logs err at error level. Errors built with oops contribute their code
// and context as structured fields.
func Error(logger zerolog.Logger, msg string, err error) {
	event := logger.Error().Err(err)
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil {
			event = event.Interface("code", code)
		}
		if fields := oopsErr.Context(); len(fields) > 0 {
			event = event.Fields(fields)
		}
	}
	event.Msg(msg)
}
