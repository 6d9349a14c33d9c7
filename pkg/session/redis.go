package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis commands the Redis store needs.
// Any redis.Cmdable satisfies it.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore keeps sessions in Redis as JSON documents.
//
// Two keys are written per session: "<prefix>id:<id>" holds the payload and
// "<prefix>token:<token>" points at the ID. Both expire with the session.
// Values go through encoding/json, so numbers come back as float64.
type RedisStore struct {
	client RedisClient
	opts   *storeOptions
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store backed by client.
func NewRedisStore(client RedisClient, opts ...StoreOption) *RedisStore {
	return &RedisStore{client: client, opts: newStoreOptions(opts...)}
}

// Create implements Store.
func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	return r.write(ctx, s)
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	id, err := r.client.Get(ctx, r.tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	s, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Token != token {
		return nil, ErrNotFound
	}
	if r.opts.now().After(s.ExpiresAt) {
		_ = r.Delete(ctx, s.ID)
		return nil, ErrExpired
	}
	return s, nil
}

// Update implements Store.
func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	old, err := r.load(ctx, s.ID)
	if err != nil {
		return err
	}
	if old.Token != s.Token {
		if err := r.client.Del(ctx, r.tokenKey(old.Token)).Err(); err != nil {
			return errors.Join(ErrStore, err)
		}
	}
	return r.write(ctx, s)
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	keys := []string{r.idKey(id)}
	if s, err := r.load(ctx, id); err == nil {
		keys = append(keys, r.tokenKey(s.Token))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

// Touch implements Store.
func (r *RedisStore) Touch(ctx context.Context, id string, lastActiveAt time.Time) error {
	s, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	s.LastActiveAt = lastActiveAt
	return r.write(ctx, s)
}

func (r *RedisStore) load(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.idKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStore, err)
	}

	s := &Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	return s, nil
}

func (r *RedisStore) write(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Join(ErrEncode, err)
	}

	ttl := r.opts.expiry(s).Sub(r.opts.now())
	if ttl <= 0 {
		return ErrExpired
	}

	if err := r.client.Set(ctx, r.idKey(s.ID), data, ttl).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	if err := r.client.Set(ctx, r.tokenKey(s.Token), s.ID, ttl).Err(); err != nil {
		return errors.Join(ErrStore, err)
	}
	return nil
}

func (r *RedisStore) idKey(id string) string {
	return r.opts.prefix + "id:" + id
}

func (r *RedisStore) tokenKey(token string) string {
	return r.opts.prefix + "token:" + token
}
