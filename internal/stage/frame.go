// Package stage keeps the continuously published media surface of a session
// in sync with exhibit state: a single shared video frame slot drained by a
// fixed-rate publisher, a cancelable slideshow loop that writes the slot, and
// a one-at-a-time background audio cue controller.
//
// The frame slot plus a concurrently polling publisher is a producer /
// single-slot-buffer pattern: only the latest frame matters, so the slot is
// a mutex-guarded value, not a queue. Frames are swapped as whole units and
// never mutated in place after publication.
package stage

import (
	"sync"

	"github.com/marloweav/heritagehall/pkg/media"
)

// FrameSlot is the single shared mutable frame slot. It is written by the
// active slideshow loop and read by the publisher. The zero value is an
// empty, ready-to-use slot.
//
// All methods are safe for concurrent use. The lock is held only across the
// swap of the frame reference, never across decoding or transport I/O.
type FrameSlot struct {
	mu    sync.Mutex
	frame media.Frame
}

// Set replaces the current frame as a whole unit. The caller must not
// modify f.Data afterwards.
func (s *FrameSlot) Set(f media.Frame) {
	s.mu.Lock()
	s.frame = f
	s.mu.Unlock()
}

// Get returns the current frame. The returned frame may be empty when no
// slideshow has written yet. Callers must treat the data as read-only.
func (s *FrameSlot) Get() media.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Clear empties the slot. The publisher skips ticks while the slot is empty.
func (s *FrameSlot) Clear() {
	s.mu.Lock()
	s.frame = media.Frame{}
	s.mu.Unlock()
}
