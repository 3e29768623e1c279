package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrInProgress means another request holds the key and has not finished.
var ErrInProgress = errors.New("request with this idempotency key is in progress")

// Store remembers the result of a request per client supplied key.
type Store interface {
	// Claim reserves key. When the key already finished, the stored value is
	// returned with claimed false.
	Claim(ctx context.Context, key string) (value string, claimed bool, err error)
	Complete(ctx context.Context, key, value string) error
	Release(ctx context.Context, key string) error
}

type memoryEntry struct {
	value   string
	done    bool
	expires time.Time
}

// MemoryStore is a process local Store.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Claim(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expires) {
		if !e.done {
			return "", false, ErrInProgress
		}
		return e.value, false, nil
	}
	s.entries[key] = memoryEntry{expires: now.Add(s.ttl)}
	return "", true, nil
}

func (s *MemoryStore) Complete(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, done: true, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
