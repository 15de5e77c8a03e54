package generation

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned by [Tracker.Commit] when the token has been superseded.
var ErrStale = errors.New("generation: stale token")

// Store issues and reports generation numbers. Generation 0 means no
// generation has begun for the key.
type Store interface {
	// Next atomically increments and returns the generation for key.
	Next(ctx context.Context, key string) (uint64, error)
	// Current returns the latest generation for key.
	Current(ctx context.Context, key string) (uint64, error)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.Mutex
	gens map[string]uint64
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{gens: make(map[string]uint64)}
}

// Next implements Store.
func (s *MemoryStore) Next(ctx context.Context, key string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[key]++
	return s.gens[key], nil
}

// Current implements Store.
func (s *MemoryStore) Current(ctx context.Context, key string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[key], nil
}
