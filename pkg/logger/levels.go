package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Levels beyond the four built into slog.
const (
	LevelTrace slog.Level = -8
	LevelFatal slog.Level = 12
)

// ParseLevel converts a level name to a slog.Level.
// "warning" and "warn" are synonyms; the empty string means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// LevelName returns the display name of a level.
func LevelName(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelFatal:
		return "FATAL"
	default:
		return l.String()
	}
}

// replaceLevel renders the custom levels by name instead of "DEBUG-4".
func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if l, ok := a.Value.Any().(slog.Level); ok {
		a.Value = slog.StringValue(LevelName(l))
	}
	return a
}
