package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence.
// Implementations handle storage-specific operations like
// database queries or cache lookups.
type Store interface {
	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Get retrieves a session by its token.
	// Returns ErrNotFound if the session doesn't exist.
	// Returns ErrExpired if the session has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Update saves changes to an existing session.
	// A changed token replaces the previous one.
	Update(ctx context.Context, s *Session) error

	// Delete removes a session by its ID.
	Delete(ctx context.Context, id string) error

	// Touch updates the LastActiveAt timestamp and restarts the store TTL.
	Touch(ctx context.Context, id string, lastActiveAt time.Time) error
}

// StoreOption configures the bundled stores.
type StoreOption func(*storeOptions)

type storeOptions struct {
	now    func() time.Time
	prefix string
	ttl    time.Duration
	sweep  time.Duration
}

func newStoreOptions(opts ...StoreOption) *storeOptions {
	o := &storeOptions{
		ttl:    30 * 24 * time.Hour,
		sweep:  time.Minute,
		prefix: "session:",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithTTL sets how long a stored session lives after its last write.
// Default: 30 days
func WithTTL(d time.Duration) StoreOption {
	return func(o *storeOptions) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithKeyPrefix sets the key prefix used by the Redis store.
// Default: "session:"
func WithKeyPrefix(prefix string) StoreOption {
	return func(o *storeOptions) {
		o.prefix = prefix
	}
}

// WithSweepInterval sets the minimum time between two expiry sweeps of the
// memory store.
// Default: 1 minute
func WithSweepInterval(d time.Duration) StoreOption {
	return func(o *storeOptions) {
		if d > 0 {
			o.sweep = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func (o *storeOptions) expiry(s *Session) time.Time {
	ttlExpiry := o.now().Add(o.ttl)
	if s.ExpiresAt.IsZero() || s.ExpiresAt.After(ttlExpiry) {
		return ttlExpiry
	}
	return s.ExpiresAt
}
