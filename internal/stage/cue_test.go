package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/marloweav/heritagehall/pkg/media"
	"github.com/marloweav/heritagehall/pkg/media/mock"
)

var (
	idleCue  = media.Cue{Name: "ambience.ogg", Volume: 0.4, Loop: true}
	alertCue = media.Cue{Name: "alert.ogg", Volume: 0.8, Loop: true}
)

func TestCueController_SwitchStopsPrevious(t *testing.T) {
	t.Parallel()

	sink := &mock.AudioSink{}
	c := NewCueController(sink)
	ctx := context.Background()

	if err := c.Switch(ctx, idleCue); err != nil {
		t.Fatalf("switch idle: %v", err)
	}
	if err := c.Switch(ctx, alertCue); err != nil {
		t.Fatalf("switch alert: %v", err)
	}

	if got := c.Current(); got != "alert.ogg" {
		t.Errorf("current cue = %q, want alert.ogg", got)
	}
	if got := sink.Playing(); got != 1 {
		t.Errorf("%d cues playing, want exactly 1", got)
	}
	started := sink.Started()
	if len(started) != 2 || started[0].Name != "ambience.ogg" || started[1].Name != "alert.ogg" {
		t.Errorf("started cues = %+v", started)
	}
}

func TestCueController_SameCueIsNoOp(t *testing.T) {
	t.Parallel()

	sink := &mock.AudioSink{}
	c := NewCueController(sink)
	ctx := context.Background()

	if err := c.Switch(ctx, alertCue); err != nil {
		t.Fatalf("switch: %v", err)
	}
	if err := c.Switch(ctx, alertCue); err != nil {
		t.Fatalf("second switch: %v", err)
	}

	if got := len(sink.Started()); got != 1 {
		t.Errorf("cue started %d times, want 1 (no stacked loops)", got)
	}
	if got := sink.Playing(); got != 1 {
		t.Errorf("%d cues playing, want 1", got)
	}
}

func TestCueController_Stop(t *testing.T) {
	t.Parallel()

	sink := &mock.AudioSink{}
	c := NewCueController(sink)

	if err := c.Switch(context.Background(), idleCue); err != nil {
		t.Fatalf("switch: %v", err)
	}
	c.Stop()
	c.Stop() // idempotent

	if got := c.Current(); got != "" {
		t.Errorf("current cue = %q after Stop, want empty", got)
	}
	if got := sink.Playing(); got != 0 {
		t.Errorf("%d cues still playing after Stop", got)
	}
}

func TestCueController_PlayFailure(t *testing.T) {
	t.Parallel()

	sink := &mock.AudioSink{PlayErr: errors.New("sink offline")}
	c := NewCueController(sink)

	if err := c.Switch(context.Background(), idleCue); err == nil {
		t.Fatal("expected error from failing sink")
	}
	if got := c.Current(); got != "" {
		t.Errorf("current cue = %q after failed switch, want empty", got)
	}
}
