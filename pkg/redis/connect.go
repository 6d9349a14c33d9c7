package redis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/llama/pkg/logger"
)

// Option configures Open.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger that reports connection retries.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Open creates a Redis client from cfg and pings it, retrying with a
// linearly growing delay. Both redis:// and rediss:// (TLS) URLs are accepted.
func Open(ctx context.Context, cfg Config, opts ...Option) (*redis.Client, error) {
	o := &options{logger: logger.NewNope()}
	for _, opt := range opts {
		opt(o)
	}

	redisOpts, err := clientOptions(cfg)
	if err != nil {
		return nil, err
	}

	return connect(ctx, redisOpts, cfg.RetryAttempts, cfg.RetryInterval, o.logger)
}

// clientOptions validates the URL and maps cfg onto go-redis options.
func clientOptions(cfg Config) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(cfg.URL, "redis://") && !strings.HasPrefix(cfg.URL, "rediss://") {
		return nil, ErrFailedToParseURL
	}

	redisOpts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseURL, err)
	}

	redisOpts.PoolSize = cfg.PoolSize
	redisOpts.MinIdleConns = cfg.MinIdleConns
	redisOpts.ConnMaxIdleTime = cfg.MaxIdleTime
	redisOpts.ConnMaxLifetime = cfg.MaxActiveTime
	redisOpts.ReadTimeout = cfg.ReadTimeout
	redisOpts.WriteTimeout = cfg.WriteTimeout
	redisOpts.DialTimeout = cfg.DialTimeout

	return redisOpts, nil
}

func connect(ctx context.Context, opts *redis.Options, attempts int, interval time.Duration, l *slog.Logger) (*redis.Client, error) {
	attempts = max(attempts, 1)

	var lastErr error
	for i := range attempts {
		client := redis.NewClient(opts)

		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			return client, nil
		}

		_ = client.Close()
		l.WarnContext(ctx, "redis: ping failed",
			slog.Int("attempt", i+1),
			slog.Any("error", lastErr),
		)

		if i == attempts-1 {
			break
		}
		if waitErr := wait(ctx, time.Duration(i+1)*interval); waitErr != nil {
			return nil, errors.Join(ErrConnectionFailed, waitErr)
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
