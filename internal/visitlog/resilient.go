package visitlog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrLogUnavailable is returned by [ResilientStore] while the underlying
// store is tripped and the cooldown has not yet elapsed.
var ErrLogUnavailable = errors.New("visitlog: store unavailable, event dropped")

// Compile-time interface check.
var _ Store = (*ResilientStore)(nil)

// ResilientStore wraps a [Store] with a trip-and-cooldown gate so a dead
// database cannot stall the tour. Visit events are best effort: after
// maxFailures consecutive write failures the store trips and further events
// are dropped (and counted) until cooldown elapses, when the next event acts
// as the probe.
//
// Reads pass through untouched; a failing Recent reports its own error.
type ResilientStore struct {
	inner       Store
	maxFailures int
	cooldown    time.Duration

	mu          sync.Mutex
	consecutive int
	trippedAt   time.Time
	dropped     int
}

// NewResilientStore wraps inner. Non-positive maxFailures defaults to 5,
// non-positive cooldown to 30 seconds.
func NewResilientStore(inner Store, maxFailures int, cooldown time.Duration) *ResilientStore {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &ResilientStore{inner: inner, maxFailures: maxFailures, cooldown: cooldown}
}

// Record implements [Store]. While tripped it drops the event and returns
// [ErrLogUnavailable] without touching the underlying store.
func (s *ResilientStore) Record(ctx context.Context, e Event) error {
	s.mu.Lock()
	if s.consecutive >= s.maxFailures && time.Since(s.trippedAt) < s.cooldown {
		s.dropped++
		s.mu.Unlock()
		return ErrLogUnavailable
	}
	s.mu.Unlock()

	err := s.inner.Record(ctx, e)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.consecutive++
		s.trippedAt = time.Now()
		if s.consecutive == s.maxFailures {
			slog.Warn("visit log tripped, dropping events",
				"failures", s.consecutive, "cooldown", s.cooldown)
		}
		return err
	}
	if s.dropped > 0 {
		slog.Info("visit log recovered", "dropped", s.dropped)
		s.dropped = 0
	}
	s.consecutive = 0
	return nil
}

// Recent implements [Store].
func (s *ResilientStore) Recent(ctx context.Context, limit int) ([]Event, error) {
	return s.inner.Recent(ctx, limit)
}

// Dropped returns how many events have been dropped since the last
// successful write.
func (s *ResilientStore) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}
