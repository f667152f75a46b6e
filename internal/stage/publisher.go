package stage

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/marloweav/heritagehall/internal/observe"
	"github.com/marloweav/heritagehall/pkg/media"
)

// DefaultFrameRate is the publish rate used when no option overrides it.
// Transports are expected to refresh continuously, so the rate is independent
// of how often the slideshow actually changes the content.
const DefaultFrameRate = 30

// PublisherOption configures a [Publisher] during construction.
type PublisherOption func(*Publisher)

// WithFrameRate sets the publish rate in frames per second. Values ≤ 0 keep
// the default of 30.
func WithFrameRate(fps int) PublisherOption {
	return func(p *Publisher) {
		if fps > 0 {
			p.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithPublisherMetrics sets the metrics instance used by the publisher.
// Defaults to [observe.DefaultMetrics].
func WithPublisherMetrics(m *observe.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// Publisher drains the shared frame slot to a [media.VideoTrack] at a fixed
// rate. It never blocks waiting for new content: a stale frame is republished
// unchanged, and an empty slot skips the tick.
type Publisher struct {
	slot     *FrameSlot
	track    media.VideoTrack
	interval time.Duration
	metrics  *observe.Metrics
}

// NewPublisher creates a Publisher reading from slot and writing to track.
func NewPublisher(slot *FrameSlot, track media.VideoTrack, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		slot:     slot,
		track:    track,
		interval: time.Second / DefaultFrameRate,
	}
	for _, o := range opts {
		o(p)
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	return p
}

// Run publishes until ctx is cancelled, then returns ctx.Err(). Write errors
// are logged and counted but never stop the loop — the transport is expected
// to recover or the session to end.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick performs one publish cycle: read the slot, push the frame if any.
func (p *Publisher) tick(ctx context.Context) {
	start := time.Now()
	f := p.slot.Get()
	if f.Empty() {
		p.metrics.FramesPublished.Add(ctx, 1,
			metric.WithAttributes(observe.Attr("status", "empty")))
		return
	}

	status := "ok"
	if err := p.track.WriteFrame(ctx, f); err != nil {
		status = "error"
		slog.Warn("stage: frame write failed", "error", err)
	}
	p.metrics.FramesPublished.Add(ctx, 1,
		metric.WithAttributes(observe.Attr("status", status)))
	p.metrics.PublishTickDuration.Record(ctx, time.Since(start).Seconds())
}
