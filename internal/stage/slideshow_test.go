package stage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/marloweav/heritagehall/pkg/media"
)

// countingLoader produces one-byte frames tagged with the image path's first
// letter and counts loads per tag.
type countingLoader struct {
	mu     sync.Mutex
	counts map[byte]int

	// failPaths lists paths that fail to load.
	failPaths map[string]bool
}

func newCountingLoader(fail ...string) *countingLoader {
	fp := make(map[string]bool, len(fail))
	for _, p := range fail {
		fp[p] = true
	}
	return &countingLoader{counts: make(map[byte]int), failPaths: fp}
}

func (l *countingLoader) Load(ctx context.Context, path string) (media.Frame, error) {
	if err := ctx.Err(); err != nil {
		return media.Frame{}, err
	}
	if l.failPaths[path] {
		return media.Frame{}, fmt.Errorf("no such file: %s", path)
	}
	l.mu.Lock()
	l.counts[path[0]]++
	l.mu.Unlock()
	return media.Frame{Data: []byte{path[0]}, Width: 1, Height: 1}, nil
}

func (l *countingLoader) count(tag byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[tag]
}

func TestEngine_StartRejectsEmptyList(t *testing.T) {
	t.Parallel()

	e := NewEngine(&FrameSlot{}, newCountingLoader(), WithDwell(time.Millisecond))
	if err := e.Start(context.Background(), "empty", nil); err == nil {
		t.Fatal("expected error for empty image list")
	}
	if e.Running() {
		t.Error("engine must not be running after rejected start")
	}
}

func TestEngine_WritesFramesInOrder(t *testing.T) {
	t.Parallel()

	slot := &FrameSlot{}
	e := NewEngine(slot, newCountingLoader(), WithDwell(5*time.Millisecond))

	if err := e.Start(context.Background(), "apollo", []string{"a1", "a2"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer e.Stop()

	waitFor(t, func() bool { return !slot.Get().Empty() })
	if got := slot.Get().Data[0]; got != 'a' {
		t.Errorf("first frame tag = %q, want 'a'", got)
	}
}

func TestEngine_ReplaceStopsPriorWriter(t *testing.T) {
	t.Parallel()

	slot := &FrameSlot{}
	loader := newCountingLoader()
	e := NewEngine(slot, loader, WithDwell(2*time.Millisecond))

	ctx := context.Background()
	if err := e.Start(ctx, "apollo", []string{"a1", "a2"}); err != nil {
		t.Fatalf("start apollo: %v", err)
	}
	waitFor(t, func() bool { return loader.count('a') > 0 })

	// Replacing must await the apollo loop's termination before returning.
	if err := e.Start(ctx, "mother", []string{"b1"}); err != nil {
		t.Fatalf("start mother: %v", err)
	}
	defer e.Stop()

	frozen := loader.count('a')
	waitFor(t, func() bool { return loader.count('b') > 2 })

	if got := loader.count('a'); got != frozen {
		t.Errorf("prior slideshow loaded %d more images after replacement", got-frozen)
	}
	if got := slot.Get().Data[0]; got != 'b' {
		t.Errorf("slot tag = %q, want 'b'", got)
	}
}

func TestEngine_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	e := NewEngine(&FrameSlot{}, newCountingLoader(), WithDwell(time.Millisecond))
	if err := e.Start(context.Background(), "apollo", []string{"a1"}); err != nil {
		t.Fatalf("start: %v", err)
	}

	e.Stop()
	if e.Running() {
		t.Fatal("engine still running after Stop")
	}
	e.Stop() // second stop must be a no-op
}

func TestEngine_SkipsUnreadableImages(t *testing.T) {
	t.Parallel()

	slot := &FrameSlot{}
	loader := newCountingLoader("x1")
	e := NewEngine(slot, loader, WithDwell(2*time.Millisecond))

	if err := e.Start(context.Background(), "mixed", []string{"x1", "g2"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer e.Stop()

	// The loop must survive the bad image and publish the good one.
	waitFor(t, func() bool { return loader.count('g') > 1 })
	if got := slot.Get().Data[0]; got != 'g' {
		t.Errorf("slot tag = %q, want 'g'", got)
	}
}

func TestEngine_AllImagesFailingKeepsLoopAlive(t *testing.T) {
	t.Parallel()

	e := NewEngine(&FrameSlot{}, newCountingLoader("x1", "x2"), WithDwell(time.Millisecond))
	if err := e.Start(context.Background(), "broken", []string{"x1", "x2"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer e.Stop()

	time.Sleep(10 * time.Millisecond)
	if !e.Running() {
		t.Error("loop must keep running when every image fails")
	}
}

func TestEngine_CancelledParentContextStopsLoop(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader()
	e := NewEngine(&FrameSlot{}, loader, WithDwell(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	if err := e.Start(ctx, "apollo", []string{"a1"}); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()

	waitFor(t, func() bool { return !e.Running() })
	frozen := loader.count('a')
	time.Sleep(10 * time.Millisecond)
	if got := loader.count('a'); got != frozen {
		t.Error("loop kept loading after parent context cancellation")
	}
}

// waitFor polls cond for up to two seconds, failing the test on timeout.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached within deadline")
}
