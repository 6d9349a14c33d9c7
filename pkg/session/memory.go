package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory.
// Expired entries are swept lazily on access, at most once per sweep interval.
type MemoryStore struct {
	opts      *storeOptions
	sessions  map[string]memoryEntry
	tokens    map[string]string
	lastSweep time.Time
	mu        sync.Mutex
}

type memoryEntry struct {
	session *Session
	expires time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	return &MemoryStore{
		opts:     newStoreOptions(opts...),
		sessions: make(map[string]memoryEntry),
		tokens:   make(map[string]string),
	}
}

// Create implements Store.
func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.putLocked(s)
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()

	id, ok := m.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	e, ok := m.sessions[id]
	if !ok {
		delete(m.tokens, token)
		return nil, ErrNotFound
	}
	if m.expiredLocked(e) {
		m.deleteLocked(id)
		return nil, ErrExpired
	}

	return e.session.clone(), nil
}

// Update implements Store.
func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.sessions[s.ID]
	if !ok {
		return ErrNotFound
	}
	if old.session.Token != s.Token {
		delete(m.tokens, old.session.Token)
	}
	m.putLocked(s)
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(id)
	return nil
}

// Touch implements Store. Like a write, it restarts the TTL, which stays
// capped by the session's own ExpiresAt.
func (m *MemoryStore) Touch(_ context.Context, id string, lastActiveAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if m.expiredLocked(e) {
		m.deleteLocked(id)
		return ErrExpired
	}
	e.session.LastActiveAt = lastActiveAt
	m.putLocked(e.session)
	return nil
}

// Len returns the number of stored sessions, expired ones included until
// the next sweep.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStore) putLocked(s *Session) {
	m.sessions[s.ID] = memoryEntry{session: s.clone(), expires: m.opts.expiry(s)}
	m.tokens[s.Token] = s.ID
}

func (m *MemoryStore) deleteLocked(id string) {
	e, ok := m.sessions[id]
	if !ok {
		return
	}
	delete(m.tokens, e.session.Token)
	delete(m.sessions, id)
}

func (m *MemoryStore) expiredLocked(e memoryEntry) bool {
	return !m.opts.now().Before(e.expires)
}

func (m *MemoryStore) sweepLocked() {
	now := m.opts.now()
	if now.Sub(m.lastSweep) < m.opts.sweep {
		return
	}
	m.lastSweep = now

	for id, e := range m.sessions {
		if m.expiredLocked(e) {
			m.deleteLocked(id)
		}
	}
}
