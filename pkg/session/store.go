package session

import (
	"context"
	"sync"
	"time"
)

// Store holds sessions by ID.
type Store interface {
	// Get returns the session or ErrNotFound. Expired sessions are not found.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete closes and removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup closes and removes expired sessions, returning how many.
	Cleanup(ctx context.Context) (int, error)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewMemoryStore creates a store expiring sessions idle for longer than ttl.
// A non-positive ttl uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, sessions: make(map[string]*Session)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.IsExpired(m.ttl) {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Set(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Close()
	return nil
}

func (m *MemoryStore) Cleanup(_ context.Context) (int, error) {
	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.IsExpired(m.ttl) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range expired {
		s.Close()
	}
	return len(expired), nil
}

// Len returns the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Reap runs Cleanup every interval until ctx is done.
func Reap(ctx context.Context, store Store, interval time.Duration, onExpire func(n int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.Cleanup(ctx)
			if err == nil && n > 0 && onExpire != nil {
				onExpire(n)
			}
		}
	}
}
