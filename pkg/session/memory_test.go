package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/llama/pkg/session"
)

type clock struct {
	now time.Time
	mu  sync.Mutex
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	sess := session.New("id-1", "token-1", time.Now().Add(time.Hour))
	sess.SetValue("user", "alice")
	require.NoError(t, store.Create(ctx, sess))

	got, err := store.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "alice", got.Get("user", nil))

	// The store keeps its own copy.
	got.SetValue("user", "bob")
	again, err := store.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Get("user", nil))

	got.Token = "token-2"
	require.NoError(t, store.Update(ctx, got))

	_, err = store.Get(ctx, "token-1")
	assert.ErrorIs(t, err, session.ErrNotFound)
	rotated, err := store.Get(ctx, "token-2")
	require.NoError(t, err)
	assert.Equal(t, "bob", rotated.Get("user", nil))

	touched := time.Now().Add(time.Minute)
	require.NoError(t, store.Touch(ctx, "id-1", touched))
	rotated, err = store.Get(ctx, "token-2")
	require.NoError(t, err)
	assert.True(t, touched.Equal(rotated.LastActiveAt))

	require.NoError(t, store.Delete(ctx, "id-1"))
	_, err = store.Get(ctx, "token-2")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 0, store.Len())

	require.NoError(t, store.Delete(ctx, "id-1"), "deleting twice is not an error")
}

func TestMemoryStore_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	_, err := store.Get(ctx, "")
	assert.ErrorIs(t, err, session.ErrInvalidToken)

	_, err = store.Get(ctx, "unknown")
	assert.ErrorIs(t, err, session.ErrNotFound)

	err = store.Update(ctx, session.New("ghost", "t", time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, session.ErrNotFound)

	err = store.Touch(ctx, "ghost", time.Now())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newClock()
	store := session.NewMemoryStore(
		session.WithClock(c.Now),
		session.WithTTL(10*time.Minute),
		session.WithSweepInterval(time.Minute),
	)

	short := session.New("short", "short-token", c.Now().Add(2*time.Minute))
	long := session.New("long", "long-token", c.Now().Add(time.Hour))
	require.NoError(t, store.Create(ctx, short))
	require.NoError(t, store.Create(ctx, long))

	c.Advance(3 * time.Minute)

	_, err := store.Get(ctx, "short-token")
	assert.ErrorIs(t, err, session.ErrNotFound, "the sweep removed the expired session first")

	_, err = store.Get(ctx, "long-token")
	require.NoError(t, err)

	// TTL caps the session lifetime below its own ExpiresAt.
	c.Advance(8 * time.Minute)
	_, err = store.Get(ctx, "long-token")
	assert.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_TouchExtendsTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newClock()
	store := session.NewMemoryStore(
		session.WithClock(c.Now),
		session.WithTTL(10*time.Minute),
	)

	sess := session.New("id", "token", c.Now().Add(25*time.Minute))
	require.NoError(t, store.Create(ctx, sess))

	c.Advance(8 * time.Minute)
	require.NoError(t, store.Touch(ctx, "id", c.Now()))

	// Without the touch the TTL would have run out two minutes ago.
	c.Advance(8 * time.Minute)
	got, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, got.LastActiveAt.Equal(c.Now().Add(-8*time.Minute)))

	// ExpiresAt still caps the lifetime.
	require.NoError(t, store.Touch(ctx, "id", c.Now()))
	c.Advance(9 * time.Minute)
	_, err = store.Get(ctx, "token")
	assert.Error(t, err)

	assert.ErrorIs(t, store.Touch(ctx, "id", c.Now()), session.ErrNotFound)
}

func TestMemoryStore_TouchExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newClock()
	store := session.NewMemoryStore(session.WithClock(c.Now), session.WithTTL(time.Minute))
	require.NoError(t, store.Create(ctx, session.New("id", "token", c.Now().Add(time.Hour))))

	c.Advance(2 * time.Minute)
	assert.ErrorIs(t, store.Touch(ctx, "id", c.Now()), session.ErrExpired)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_ExpiredBeforeSweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := newClock()
	store := session.NewMemoryStore(
		session.WithClock(c.Now),
		session.WithSweepInterval(time.Hour),
	)

	// First call performs the initial sweep.
	_, _ = store.Get(ctx, "warmup")

	sess := session.New("id", "token", c.Now().Add(time.Minute))
	require.NoError(t, store.Create(ctx, sess))

	c.Advance(2 * time.Minute)
	_, err := store.Get(ctx, "token")
	assert.ErrorIs(t, err, session.ErrExpired)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			id := string(rune('a' + i))
			sess := session.New(id, "token-"+id, time.Now().Add(time.Hour))
			assert.NoError(t, store.Create(ctx, sess))
			_, err := store.Get(ctx, "token-"+id)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
}
