package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LevelCritical sits above slog.LevelError for failures that end the run.
const LevelCritical = slog.Level(12)

type Logger interface {
	Info(msg string, keyvals ...interface{})

	Warn(msg string, keyvals ...interface{})

	Error(msg string, keyvals ...interface{})

	Debug(msg string, keyvals ...interface{})
}

// ParseLevel maps the CLI level names onto slog levels.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	case "CRITICAL":
		return LevelCritical, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// New returns a text logger writing to w, or a JSON logger when asJSON is set.
func New(w io.Writer, level string, asJSON bool) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && a.Value.Any() == LevelCritical {
				a.Value = slog.StringValue("CRITICAL")
			}
			return a
		},
	}

	var handler slog.Handler
	if asJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

// Critical logs msg at LevelCritical, or at ERROR when l has no level control.
func Critical(ctx context.Context, l Logger, msg string, keyvals ...interface{}) {
	if leveled, ok := l.(interface {
		Log(ctx context.Context, level slog.Level, msg string, args ...any)
	}); ok {
		leveled.Log(ctx, LevelCritical, msg, keyvals...)
		return
	}
	l.Error(msg, keyvals...)
}

// Discard is used by library callers and tests that do not care about logs.
func Discard() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
