package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/llama/pkg/session"
)

// fakeRedis implements session.RedisClient on top of a map.
type fakeRedis struct {
	data   map[string]string
	ttl    map[string]time.Duration
	setErr error
	mu     sync.Mutex
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), ttl: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			delete(f.ttl, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.data))
	for k := range f.data {
		out = append(out, k)
	}
	return out
}

func TestRedisStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := newFakeRedis()
	store := session.NewRedisStore(client, session.WithKeyPrefix("test:"), session.WithTTL(time.Hour))

	sess := session.New("id-1", "token-1", time.Now().Add(24*time.Hour))
	sess.SetValue("user", "alice")
	sess.SetValue("visits", 3)
	require.NoError(t, store.Create(ctx, sess))

	assert.ElementsMatch(t, []string{"test:id:id-1", "test:token:token-1"}, client.keys())
	ttl := client.ttl["test:id:id-1"]
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5, "the store TTL caps the session expiry")

	got, err := store.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "alice", got.Get("user", nil))
	assert.Equal(t, float64(3), got.Get("visits", nil), "numbers round-trip through JSON")

	got.Token = "token-2"
	require.NoError(t, store.Update(ctx, got))
	assert.ElementsMatch(t, []string{"test:id:id-1", "test:token:token-2"}, client.keys())

	_, err = store.Get(ctx, "token-1")
	assert.ErrorIs(t, err, session.ErrNotFound)

	touched := time.Now().Add(time.Minute).Truncate(time.Second)
	require.NoError(t, store.Touch(ctx, "id-1", touched))
	got, err = store.Get(ctx, "token-2")
	require.NoError(t, err)
	assert.True(t, touched.Equal(got.LastActiveAt))

	require.NoError(t, store.Delete(ctx, "id-1"))
	assert.Empty(t, client.keys())
}

func TestRedisStore_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()
		store := session.NewRedisStore(newFakeRedis())
		_, err := store.Get(ctx, "")
		assert.ErrorIs(t, err, session.ErrInvalidToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()
		store := session.NewRedisStore(newFakeRedis())
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("update missing session", func(t *testing.T) {
		t.Parallel()
		store := session.NewRedisStore(newFakeRedis())
		err := store.Update(ctx, session.New("ghost", "t", time.Now().Add(time.Hour)))
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("corrupt payload", func(t *testing.T) {
		t.Parallel()
		client := newFakeRedis()
		client.data["session:token:t"] = "id"
		client.data["session:id:id"] = "{not json"
		store := session.NewRedisStore(client)
		_, err := store.Get(ctx, "t")
		assert.ErrorIs(t, err, session.ErrDecode)
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()
		client := newFakeRedis()
		client.setErr = errors.New("connection reset")
		store := session.NewRedisStore(client)
		err := store.Create(ctx, session.New("id", "t", time.Now().Add(time.Hour)))
		assert.ErrorIs(t, err, session.ErrStore)
	})

	t.Run("expired session", func(t *testing.T) {
		t.Parallel()
		client := newFakeRedis()
		now := time.Now()
		current := now
		store := session.NewRedisStore(client, session.WithClock(func() time.Time { return current }))

		require.NoError(t, store.Create(ctx, session.New("id", "t", now.Add(time.Minute))))
		current = now.Add(2 * time.Minute)

		_, err := store.Get(ctx, "t")
		assert.ErrorIs(t, err, session.ErrExpired)
		assert.Empty(t, client.keys())
	})
}
