package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `mapstructure:"sentry_dsn"`
	Environment string `mapstructure:"sentry_environment"`
	// MinLevel is the lowest level stored in Sentry. Errors and fatal
	// records always open issues.
	MinLevel slog.Level
}

// NewWithSentry returns a JSON logger on stdout that also reports to Sentry.
// Without a DSN it is equivalent to [New].
func NewWithSentry(cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	base := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		ReplaceAttr: replaceLevel,
	})
	return slog.New(NewLogHandlerDecorator(withSentry(base, cfg), extractors...))
}

// withSentry fans base out to a Sentry handler. When Sentry cannot be
// initialised the failure is logged on base and base is returned alone.
func withSentry(base slog.Handler, cfg SentryConfig) slog.Handler {
	if cfg.DSN == "" {
		return base
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(base).Error("sentry init failed", slog.String("error", err.Error()))
		return base
	}

	logLevel := []slog.Level{slog.LevelError, LevelFatal}
	if cfg.MinLevel < slog.LevelError {
		logLevel = append([]slog.Level{slog.LevelWarn}, logLevel...)
	}

	return newMultiHandler(base, sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError, LevelFatal},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background()))
}
