// Package observe provides application-wide observability primitives for the
// Heritage Hall curator: OpenTelemetry metrics with a Prometheus exporter
// bridge so that metrics can be scraped via the standard /metrics endpoint.
//
// A package-level default [Metrics] instance ([DefaultMetrics]) is provided
// for convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all curator metrics.
const meterName = "github.com/marloweav/heritagehall"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// FramesPublished counts frames pushed to the video track. Use with
	// attribute: attribute.String("status", "ok"|"error"|"empty").
	FramesPublished metric.Int64Counter

	// PublishTickDuration tracks how long one publisher tick takes,
	// including the transport write.
	PublishTickDuration metric.Float64Histogram

	// SlideshowSwaps counts slideshow replacements by exhibit id.
	SlideshowSwaps metric.Int64Counter

	// FramesSkipped counts slideshow images that failed to load and were
	// skipped. Use with attribute.String("exhibit", ...).
	FramesSkipped metric.Int64Counter

	// IntentCalls counts state-machine operations. Use with attributes:
	//   attribute.String("op", ...), attribute.String("status", "ok"|"denied")
	IntentCalls metric.Int64Counter

	// AccessAttempts counts restricted-access passphrase attempts.
	// Use with attribute.String("status", "granted"|"denied").
	AccessAttempts metric.Int64Counter

	// TrapState tracks whether the session is trapped (0 or 1).
	TrapState metric.Int64UpDownCounter

	// CueSwitches counts background cue changes by cue name.
	CueSwitches metric.Int64Counter
}

// tickBuckets defines histogram bucket boundaries (in seconds) sized for a
// 30 Hz publish loop — a tick over 33 ms means dropped frames.
var tickBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.033, 0.05, 0.1, 0.25,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FramesPublished, err = m.Int64Counter("heritagehall.frames.published",
		metric.WithDescription("Total frames pushed to the video track by status."),
	); err != nil {
		return nil, err
	}
	if met.PublishTickDuration, err = m.Float64Histogram("heritagehall.publish.tick.duration",
		metric.WithDescription("Duration of one publisher tick including the transport write."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(tickBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SlideshowSwaps, err = m.Int64Counter("heritagehall.slideshow.swaps",
		metric.WithDescription("Total slideshow replacements by exhibit."),
	); err != nil {
		return nil, err
	}
	if met.FramesSkipped, err = m.Int64Counter("heritagehall.slideshow.frames_skipped",
		metric.WithDescription("Slideshow images skipped because they failed to load."),
	); err != nil {
		return nil, err
	}
	if met.IntentCalls, err = m.Int64Counter("heritagehall.intent.calls",
		metric.WithDescription("State-machine operations by op and status."),
	); err != nil {
		return nil, err
	}
	if met.AccessAttempts, err = m.Int64Counter("heritagehall.access.attempts",
		metric.WithDescription("Restricted-access passphrase attempts by status."),
	); err != nil {
		return nil, err
	}
	if met.TrapState, err = m.Int64UpDownCounter("heritagehall.trap.state",
		metric.WithDescription("Whether the session is in the trapped state (0 or 1)."),
	); err != nil {
		return nil, err
	}
	if met.CueSwitches, err = m.Int64Counter("heritagehall.cue.switches",
		metric.WithDescription("Background audio cue changes by cue name."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordIntent records one state-machine operation with the standard
// attribute set.
func (m *Metrics) RecordIntent(ctx context.Context, op, status string) {
	m.IntentCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("status", status),
	))
}
