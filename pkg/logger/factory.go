package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a JSON-formatted logger with optional context extractors.
func New(extractors ...ContextExtractor) *slog.Logger {
	log := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: replaceLevel,
	})
	return slog.New(NewLogHandlerDecorator(log, extractors...))
}

// NewFromConfig creates a logger writing to w in the configured format and
// level. When a Sentry DSN is configured, records are also sent to Sentry.
func NewFromConfig(cfg Config, w io.Writer, extractors ...ContextExtractor) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevel}
	var base slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		base = slog.NewJSONHandler(w, opts)
	case "text":
		base = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}

	handler := withSentry(base, SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		MinLevel:    slog.LevelWarn,
	})
	return slog.New(NewLogHandlerDecorator(handler, extractors...)), nil
}

// Tee returns a logger that writes to l and to every extra handler.
func Tee(l *slog.Logger, handlers ...slog.Handler) *slog.Logger {
	if len(handlers) == 0 {
		return l
	}
	return slog.New(newMultiHandler(append([]slog.Handler{l.Handler()}, handlers...)...))
}
