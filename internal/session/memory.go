package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store with the same sliding-window
// semantics as RedisStore. Expired entries are dropped lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry

	// now is replaceable in tests.
	now func() time.Time
}

type memoryEntry struct {
	session  Session
	deadline time.Time
}

// NewMemoryStore creates an empty in-memory store. A non-positive ttl
// falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Store writes a new session record under a fresh token.
func (s *MemoryStore) Store(_ context.Context, cookies map[string]string, baseURL string) (string, error) {
	token := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = memoryEntry{
		session: Session{
			Cookies:   copyCookies(cookies),
			BaseURL:   baseURL,
			CreatedAt: now.UTC(),
		},
		deadline: now.Add(s.ttl),
	}
	return token, nil
}

// Get returns the session and renews its TTL to the full window.
func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(token)
	if !ok {
		return nil, ErrNotFound
	}

	entry.deadline = s.now().Add(s.ttl)
	s.entries[token] = entry

	sess := entry.session
	sess.Cookies = copyCookies(entry.session.Cookies)
	return &sess, nil
}

// Delete removes the session and reports whether it existed.
func (s *MemoryStore) Delete(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.live(token)
	delete(s.entries, token)
	return ok, nil
}

// Exists peeks at presence without renewing the TTL.
func (s *MemoryStore) Exists(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.live(token)
	return ok, nil
}

// RemainingTTL reports seconds until expiry, rounded up, with the same
// sentinels as Redis: -2 absent, -1 no deadline.
func (s *MemoryStore) RemainingTTL(_ context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.live(token)
	if !ok {
		return -2, nil
	}
	if entry.deadline.IsZero() {
		return -1, nil
	}

	remaining := entry.deadline.Sub(s.now())
	return int64((remaining + time.Second - 1) / time.Second), nil
}

// live returns the entry for token if present and unexpired, evicting it
// when the deadline has passed. Callers must hold mu.
func (s *MemoryStore) live(token string) (memoryEntry, bool) {
	entry, ok := s.entries[token]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.deadline.IsZero() && !s.now().Before(entry.deadline) {
		delete(s.entries, token)
		return memoryEntry{}, false
	}
	return entry, true
}

var _ Store = (*MemoryStore)(nil)
