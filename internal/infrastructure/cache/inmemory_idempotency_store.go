package cache

import (
	"context"
	"sync"
	"time"

	"github.com/quotebook/backend/internal/domain/shared"
)

// sweepEvery is how many marks happen between expired-key sweeps
const sweepEvery = 256

// InMemoryIdempotencyStore keeps processed keys in process memory.
// It is the fallback when Redis is disabled or unreachable, so keys are not
// shared between server instances.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	marks   int
	now     func() time.Time
}

// NewInMemoryIdempotencyStore creates an empty in-memory store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// MarkProcessed records key until ttl elapses. It returns false while an
// unexpired record for key exists.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expires[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.expires[key] = now.Add(ttl)

	s.marks++
	if s.marks%sweepEvery == 0 {
		s.sweepLocked(now)
	}
	return true, nil
}

// IsProcessed reports whether an unexpired record for key exists
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expires[key]
	return ok && s.now().Before(exp), nil
}

// Release removes the record for key
func (s *InMemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.expires, key)
	return nil
}

// Close drops every record
func (s *InMemoryIdempotencyStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expires = make(map[string]time.Time)
	return nil
}

// Len returns the number of records, expired ones included
func (s *InMemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expires)
}

func (s *InMemoryIdempotencyStore) sweepLocked(now time.Time) {
	for key, exp := range s.expires {
		if !now.Before(exp) {
			delete(s.expires, key)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
