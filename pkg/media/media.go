// Package media defines the interfaces and types for the outbound media
// surface of a Heritage Hall session: a continuously refreshed video track
// and a named-cue audio sink.
//
// The two primary abstractions are:
//
//   - [VideoTrack] — accepts fixed-resolution raw frames pushed at the
//     publisher's rate. Transports are expected to refresh continuously
//     regardless of whether the content changed.
//   - [AudioSink] — plays named audio cue files, optionally looping, and
//     returns a [Playback] handle for stopping them.
//
// Implementations are provided by transport-specific adapter packages
// (e.g., media/roomws). The interfaces are intentionally narrow to keep the
// exhibit logic decoupled from transport details.
//
// This package lives under pkg/ because external code (third-party transport
// adapters) is expected to implement [VideoTrack] and [AudioSink].
package media

import "context"

// Frame is a single raw video frame. Frames are swapped as whole units and
// never mutated after they are handed to a [VideoTrack] or to the shared
// frame slot — producers must allocate a fresh Data slice per frame.
type Frame struct {
	// Data holds tightly packed RGBA pixel data, 4 bytes per pixel,
	// row-major, Width*Height*4 bytes long.
	Data []byte

	// Width is the frame width in pixels.
	Width int

	// Height is the frame height in pixels.
	Height int
}

// Empty reports whether the frame carries no pixel data.
func (f Frame) Empty() bool { return len(f.Data) == 0 }

// Cue describes a named audio cue to play through an [AudioSink].
type Cue struct {
	// Name identifies the cue file on the transport side
	// (e.g., "ambience.ogg", "alert.ogg").
	Name string

	// Volume is the playback volume in the range [0, 1].
	Volume float64

	// Loop restarts the cue from the beginning when it ends.
	Loop bool
}

// Playback is a handle to a cue started via [AudioSink.Play].
//
// Implementations must make Stop idempotent — stopping an already stopped
// or finished playback is a no-op.
type Playback interface {
	// Stop halts playback. It must not return an error to the caller for
	// an already-stopped cue.
	Stop() error
}

// VideoTrack is the outbound video transport. The publisher calls WriteFrame
// at a fixed rate with whichever frame is current; implementations must not
// retain f.Data beyond the call unless they copy it.
//
// Implementations must be safe for concurrent use.
type VideoTrack interface {
	// WriteFrame pushes one frame to the transport. Errors are reported to
	// the caller but a failed write must not poison the track — the next
	// WriteFrame call must be attempted normally.
	WriteFrame(ctx context.Context, f Frame) error
}

// AudioSink plays named audio cues on the transport.
//
// Implementations must be safe for concurrent use.
type AudioSink interface {
	// Play starts the cue and returns a handle for stopping it. Multiple
	// cues may technically play at once; single-cue ownership is the
	// caller's policy, not the sink's.
	Play(ctx context.Context, cue Cue) (Playback, error)
}
