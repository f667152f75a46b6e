package visitlog

import (
	"context"
	"sync"
	"time"
)

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// MemStore is an in-memory [Store] for tests and for sessions running
// without a database.
type MemStore struct {
	mu     sync.Mutex
	events []Event
}

// NewMemStore creates an empty in-memory visit log.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Record implements [Store].
func (s *MemStore) Record(_ context.Context, e Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
	return nil
}

// Recent implements [Store].
func (s *MemStore) Recent(_ context.Context, limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
