// Package mock provides in-memory mock implementations of the
// [media.VideoTrack], [media.AudioSink], and [media.Playback] interfaces for
// use in unit tests.
//
// All mocks are safe for concurrent use. They record every method call so
// that tests can assert on call counts and arguments, and they expose
// exported fields that the test can set to control return values.
//
// Typical usage:
//
//	track := &mock.VideoTrack{}
//	sink := &mock.AudioSink{}
//	// ... exercise the code under test ...
//	if track.FrameCount() == 0 { t.Error("no frames published") }
package mock

import (
	"context"
	"sync"

	"github.com/marloweav/heritagehall/pkg/media"
)

// Compile-time interface checks.
var (
	_ media.VideoTrack = (*VideoTrack)(nil)
	_ media.AudioSink  = (*AudioSink)(nil)
	_ media.Playback   = (*Playback)(nil)
)

// ─── VideoTrack ──────────────────────────────────────────────────────────────

// VideoTrack is a mock implementation of [media.VideoTrack] that records
// every frame written to it.
type VideoTrack struct {
	mu sync.Mutex

	// WriteErr is returned by every [VideoTrack.WriteFrame] call when non-nil.
	WriteErr error

	frames []media.Frame
}

// WriteFrame implements [media.VideoTrack]. The frame is recorded (data slice
// retained as-is) unless WriteErr is set.
func (t *VideoTrack) WriteFrame(_ context.Context, f media.Frame) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.WriteErr != nil {
		return t.WriteErr
	}
	t.frames = append(t.frames, f)
	return nil
}

// FrameCount returns how many frames have been written so far.
func (t *VideoTrack) FrameCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.frames)
}

// LastFrame returns the most recently written frame and true, or a zero
// frame and false when nothing has been written yet.
func (t *VideoTrack) LastFrame() (media.Frame, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.frames) == 0 {
		return media.Frame{}, false
	}
	return t.frames[len(t.frames)-1], true
}

// ─── AudioSink ───────────────────────────────────────────────────────────────

// AudioSink is a mock implementation of [media.AudioSink] that records every
// cue started through it and hands out [Playback] handles.
type AudioSink struct {
	mu sync.Mutex

	// PlayErr is returned by every [AudioSink.Play] call when non-nil.
	PlayErr error

	started   []media.Cue
	playbacks []*Playback
}

// Play implements [media.AudioSink]. The cue is recorded and a fresh
// [Playback] handle returned unless PlayErr is set.
func (s *AudioSink) Play(_ context.Context, cue media.Cue) (media.Playback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PlayErr != nil {
		return nil, s.PlayErr
	}
	p := &Playback{Cue: cue}
	s.started = append(s.started, cue)
	s.playbacks = append(s.playbacks, p)
	return p, nil
}

// Started returns a copy of all cues started so far, in order.
func (s *AudioSink) Started() []media.Cue {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]media.Cue, len(s.started))
	copy(out, s.started)
	return out
}

// Playing returns the number of playbacks that have not been stopped.
func (s *AudioSink) Playing() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.playbacks {
		if !p.Stopped() {
			n++
		}
	}
	return n
}

// Playbacks returns the handles created so far, in start order.
func (s *AudioSink) Playbacks() []*Playback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Playback, len(s.playbacks))
	copy(out, s.playbacks)
	return out
}

// ─── Playback ────────────────────────────────────────────────────────────────

// Playback is a mock [media.Playback] handle.
type Playback struct {
	// Cue is the cue this handle was created for.
	Cue media.Cue

	// StopErr is returned by [Playback.Stop] when non-nil.
	StopErr error

	mu      sync.Mutex
	stopped bool
	stops   int
}

// Stop implements [media.Playback]. It is idempotent; every call is counted.
func (p *Playback) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stops++
	p.stopped = true
	return p.StopErr
}

// Stopped reports whether Stop has been called at least once.
func (p *Playback) Stopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// StopCount returns how many times Stop has been called.
func (p *Playback) StopCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stops
}
