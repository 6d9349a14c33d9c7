package session

import (
	"fmt"
	"maps"
	"time"
)

// DefaultName is the session name used when none is configured.
const DefaultName = "llama"

// Session is a named bag of values bound to a client through a token.
type Session struct {
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	Values       map[string]any `json:"values"`
	ID           string         `json:"id"`
	Token        string         `json:"token"` // Cookie token, distinct from ID
	Name         string         `json:"name"`
	IP           string         `json:"ip,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`

	dirty     bool
	isNew     bool
	destroyed bool
}

// New creates a new session with the given ID and token.
func New(id, token string, expiresAt time.Time) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		Token:        token,
		Name:         DefaultName,
		Values:       make(map[string]any),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// SetValue stores a value in the session.
// Marks the session as dirty for automatic saving.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

// GetValue retrieves a value from the session.
func (s *Session) GetValue(key string) (any, bool) {
	if s == nil || s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// Get returns the value stored under key, or def when it is absent.
func (s *Session) Get(key string, def any) any {
	if val, ok := s.GetValue(key); ok {
		return val
	}
	return def
}

// GetOnce returns the value stored under key and removes it, so the next
// read sees def. Use it for flash messages.
func (s *Session) GetOnce(key string, def any) any {
	val, ok := s.GetValue(key)
	if !ok {
		return def
	}
	s.DeleteValue(key)
	return val
}

// DeleteValue removes a value from the session.
// Marks the session as dirty only if the key existed.
func (s *Session) DeleteValue(key string) {
	if s.Values == nil {
		return
	}
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// Destroy drops every value and flags the session for removal from the store.
func (s *Session) Destroy() {
	s.Values = make(map[string]any)
	s.destroyed = true
	s.dirty = true
}

// IsDestroyed reports whether Destroy was called.
func (s *Session) IsDestroyed() bool {
	return s.destroyed
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// ClearDirty marks the session as clean (saved).
// Called by the session manager after persisting changes.
func (s *Session) ClearDirty() {
	s.dirty = false
}

// MarkDirty marks the session as needing to be saved.
func (s *Session) MarkDirty() {
	s.dirty = true
}

// IsNew returns true if the session was just created.
func (s *Session) IsNew() bool {
	return s.isNew
}

// ClearNew marks the session as no longer new.
// Called after the session is first persisted.
func (s *Session) ClearNew() {
	s.isNew = false
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// clone returns a copy that shares no mutable state with s.
func (s *Session) clone() *Session {
	c := *s
	c.Values = maps.Clone(s.Values)
	if c.Values == nil {
		c.Values = make(map[string]any)
	}
	return &c
}

// Value is a typed helper to retrieve session values with type safety.
// Returns an error if the key doesn't exist or type assertion fails.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrTypeMismatch, key)
	}

	return typed, nil
}

// ValueOr is a typed helper that returns a default value if the key
// doesn't exist or type assertion fails.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}
