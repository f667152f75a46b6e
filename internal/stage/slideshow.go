package stage

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/marloweav/heritagehall/internal/observe"
	"github.com/marloweav/heritagehall/pkg/media"
)

// DefaultDwell is how long each image stays on screen before the slideshow
// advances.
const DefaultDwell = 10 * time.Second

// ImageLoader loads and decodes one image into a publishable frame.
// Implementations must respect context cancellation — the slideshow treats
// the load as a suspension point.
type ImageLoader interface {
	Load(ctx context.Context, path string) (media.Frame, error)
}

// EngineOption configures a slideshow [Engine] during construction.
type EngineOption func(*Engine)

// WithDwell sets the per-image dwell interval. Values ≤ 0 keep the default.
func WithDwell(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.dwell = d
		}
	}
}

// WithEngineMetrics sets the metrics instance used by the engine.
// Defaults to [observe.DefaultMetrics].
func WithEngineMetrics(m *observe.Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Engine owns the at-most-one running slideshow loop. Starting a new
// slideshow cancels the previous loop and awaits its full termination before
// the new loop may write its first frame, so the frame slot never sees
// interleaved writes from two generations.
//
// All exported methods are safe for concurrent use.
type Engine struct {
	slot    *FrameSlot
	loader  ImageLoader
	dwell   time.Duration
	metrics *observe.Metrics

	mu      sync.Mutex
	current *run
}

// run is the ownership handle for one slideshow loop generation.
type run struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewEngine creates a slideshow Engine writing into slot via loader.
func NewEngine(slot *FrameSlot, loader ImageLoader, opts ...EngineOption) *Engine {
	e := &Engine{
		slot:   slot,
		loader: loader,
		dwell:  DefaultDwell,
	}
	for _, o := range opts {
		o(e)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	return e
}

// Start replaces any running slideshow with a loop over images. The previous
// loop is cancelled and awaited before the new one launches. name labels the
// loop in logs and metrics.
//
// An empty image list is an error and leaves any running slideshow untouched.
func (e *Engine) Start(ctx context.Context, name string, images []string) error {
	if len(images) == 0 {
		return errors.New("stage: slideshow needs at least one image")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()

	loopCtx, cancel := context.WithCancel(ctx)
	r := &run{cancel: cancel, done: make(chan struct{})}
	e.current = r

	e.metrics.SlideshowSwaps.Add(ctx, 1,
		metric.WithAttributes(observe.Attr("exhibit", name)))
	slog.Info("stage: slideshow started", "exhibit", name, "images", len(images))

	go e.loop(loopCtx, name, images, r.done)
	return nil
}

// Stop cancels the running slideshow, if any, and awaits its termination.
// Stopping an already-stopped engine is a no-op.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

// Running reports whether a slideshow loop is currently live.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return false
	}
	select {
	case <-e.current.done:
		return false
	default:
		return true
	}
}

// stopLocked cancels the current run and blocks until its loop has fully
// terminated. Must be called with e.mu held. The loop never takes e.mu, so
// awaiting here cannot deadlock.
func (e *Engine) stopLocked() {
	if e.current == nil {
		return
	}
	e.current.cancel()
	<-e.current.done
	e.current = nil
}

// loop cycles images into the frame slot until ctx is cancelled. Cancellation
// is observed at every suspension point (image load, dwell); once observed,
// no further frames are written.
func (e *Engine) loop(ctx context.Context, name string, images []string, done chan<- struct{}) {
	defer close(done)

	timer := time.NewTimer(e.dwell)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		wrote := false
		for _, path := range images {
			if ctx.Err() != nil {
				return
			}

			frame, err := e.loader.Load(ctx, path)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				// Missing or unreadable image: skip it, keep the loop alive.
				slog.Warn("stage: skipping image", "exhibit", name, "path", path, "error", err)
				e.metrics.FramesSkipped.Add(ctx, 1,
					metric.WithAttributes(observe.Attr("exhibit", name)))
				continue
			}

			e.slot.Set(frame)
			wrote = true

			timer.Reset(e.dwell)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return
			case <-timer.C:
			}
		}

		// Every image failed this pass. Wait one dwell before retrying so
		// a fully missing exhibit directory cannot spin the loop hot.
		if !wrote {
			timer.Reset(e.dwell)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return
			case <-timer.C:
			}
		}
	}
}
