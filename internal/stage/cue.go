package stage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/marloweav/heritagehall/internal/observe"
	"github.com/marloweav/heritagehall/pkg/media"
)

// CueOption configures a [CueController] during construction.
type CueOption func(*CueController)

// WithCueMetrics sets the metrics instance used by the controller.
// Defaults to [observe.DefaultMetrics].
func WithCueMetrics(m *observe.Metrics) CueOption {
	return func(c *CueController) {
		c.metrics = m
	}
}

// CueController keeps at most one background audio cue playing through a
// [media.AudioSink]. Switching cues stops the previous playback before the
// new one starts; switching to the cue that is already playing is a no-op,
// so repeated state transitions never stack loops.
//
// All exported methods are safe for concurrent use.
type CueController struct {
	sink    media.AudioSink
	metrics *observe.Metrics

	mu      sync.Mutex
	current media.Playback
	name    string
}

// NewCueController creates a controller playing through sink.
func NewCueController(sink media.AudioSink, opts ...CueOption) *CueController {
	c := &CueController{sink: sink}
	for _, o := range opts {
		o(c)
	}
	if c.metrics == nil {
		c.metrics = observe.DefaultMetrics()
	}
	return c
}

// Switch replaces the current cue with cue. If cue.Name is already playing,
// Switch returns nil without touching the playback.
func (c *CueController) Switch(ctx context.Context, cue media.Cue) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.name == cue.Name {
		return nil
	}

	c.stopLocked()

	p, err := c.sink.Play(ctx, cue)
	if err != nil {
		return fmt.Errorf("stage: start cue %q: %w", cue.Name, err)
	}
	c.current = p
	c.name = cue.Name

	c.metrics.CueSwitches.Add(ctx, 1,
		metric.WithAttributes(observe.Attr("cue", cue.Name)))
	slog.Info("stage: cue switched", "cue", cue.Name, "loop", cue.Loop)
	return nil
}

// Stop halts the current cue, if any. Stopping an idle controller is a no-op.
func (c *CueController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// Current returns the name of the playing cue, or "" when silent.
func (c *CueController) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name
}

// stopLocked stops the current playback. Must be called with c.mu held.
func (c *CueController) stopLocked() {
	if c.current == nil {
		return
	}
	if err := c.current.Stop(); err != nil {
		slog.Warn("stage: cue stop failed", "cue", c.name, "error", err)
	}
	c.current = nil
	c.name = ""
}
