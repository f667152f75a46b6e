package stage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/marloweav/heritagehall/pkg/media"
	"github.com/marloweav/heritagehall/pkg/media/mock"
)

func TestPublisher_RepublishesStaleFrames(t *testing.T) {
	t.Parallel()

	slot := &FrameSlot{}
	slot.Set(media.Frame{Data: []byte{42}, Width: 1, Height: 1})
	track := &mock.VideoTrack{}
	p := NewPublisher(slot, track, WithFrameRate(500))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// The content never changes, yet the track must keep receiving it.
	waitFor(t, func() bool { return track.FrameCount() >= 3 })
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
	last, ok := track.LastFrame()
	if !ok || last.Data[0] != 42 {
		t.Errorf("last published frame = %+v, want tag 42", last)
	}
}

func TestPublisher_SkipsEmptySlot(t *testing.T) {
	t.Parallel()

	track := &mock.VideoTrack{}
	p := NewPublisher(&FrameSlot{}, track, WithFrameRate(500))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_ = p.Run(ctx)

	if got := track.FrameCount(); got != 0 {
		t.Errorf("published %d frames from an empty slot, want 0", got)
	}
}

func TestPublisher_SurvivesWriteErrors(t *testing.T) {
	t.Parallel()

	slot := &FrameSlot{}
	slot.Set(media.Frame{Data: []byte{1}, Width: 1, Height: 1})
	track := &mock.VideoTrack{WriteErr: errors.New("transport down")}
	p := NewPublisher(slot, track, WithFrameRate(500))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	// A failing transport must not abort the loop; Run ends on ctx only.
	if err := p.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run returned %v, want context.DeadlineExceeded", err)
	}
}

func TestFrameSlot_WholeFrameSwap(t *testing.T) {
	t.Parallel()

	slot := &FrameSlot{}
	if !slot.Get().Empty() {
		t.Fatal("fresh slot must be empty")
	}

	a := media.Frame{Data: []byte{1, 2, 3, 4}, Width: 1, Height: 1}
	slot.Set(a)
	got := slot.Get()
	if got.Width != 1 || got.Data[0] != 1 {
		t.Errorf("slot = %+v, want frame a", got)
	}

	slot.Clear()
	if !slot.Get().Empty() {
		t.Error("slot must be empty after Clear")
	}
}
