// Package app wires all Heritage Hall subsystems into a running application.
//
// The App struct owns the full lifecycle: New creates and connects all
// subsystems, Run executes the session until the context is cancelled, and
// Shutdown tears everything down in order.
//
// For testing, inject mock implementations via functional options
// (WithVisitLog, WithImageLoader, etc.). When an option is not provided, New
// creates real implementations from the config.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/marloweav/heritagehall/internal/config"
	"github.com/marloweav/heritagehall/internal/curator"
	"github.com/marloweav/heritagehall/internal/dialogue"
	"github.com/marloweav/heritagehall/internal/gallery"
	"github.com/marloweav/heritagehall/internal/health"
	"github.com/marloweav/heritagehall/internal/persona"
	"github.com/marloweav/heritagehall/internal/stage"
	"github.com/marloweav/heritagehall/internal/visitlog"
	"github.com/marloweav/heritagehall/pkg/media"
)

// Ports holds the transport implementations the hall runs against. Populated
// by main.go from the room connection and the dialogue provider.
type Ports struct {
	// Video receives published frames.
	Video media.VideoTrack

	// Audio plays background cues.
	Audio media.AudioSink

	// Dialogue opens the conversation session.
	Dialogue dialogue.Engine
}

// App owns all subsystem lifetimes and orchestrates one curator session.
type App struct {
	cfg   *config.Config
	ports *Ports

	// Subsystems, initialised in New, torn down in Shutdown.
	catalog   *gallery.Catalog
	slot      *stage.FrameSlot
	loader    stage.ImageLoader
	slideshow *stage.Engine
	cues      *stage.CueController
	publisher *stage.Publisher
	visits    visitlog.Store
	health    *health.Handler
	session   dialogue.Session
	curator   *curator.Curator

	// closers are called in order during Shutdown.
	closers []func() error

	// stopOnce guards the Shutdown path.
	stopOnce sync.Once
}

// Option is a functional option for New. Use these to inject test doubles.
type Option func(*App)

// WithVisitLog injects a visit log instead of creating one from config.
func WithVisitLog(s visitlog.Store) Option {
	return func(a *App) { a.visits = s }
}

// WithImageLoader injects an image loader instead of the file loader rooted
// at the configured assets directory.
func WithImageLoader(l stage.ImageLoader) Option {
	return func(a *App) { a.loader = l }
}

// WithCatalog injects a catalog instead of loading the configured YAML file.
func WithCatalog(c *gallery.Catalog) Option {
	return func(a *App) { a.catalog = c }
}

// New creates an App by wiring all subsystems together. The ports struct
// comes from main.go. Use Option functions to inject test doubles.
func New(ctx context.Context, cfg *config.Config, ports *Ports, opts ...Option) (*App, error) {
	if ports == nil || ports.Video == nil || ports.Audio == nil || ports.Dialogue == nil {
		return nil, errors.New("app: all ports are required")
	}

	a := &App{cfg: cfg, ports: ports}
	for _, o := range opts {
		o(a)
	}

	if err := a.initCatalog(); err != nil {
		return nil, fmt.Errorf("app: init catalog: %w", err)
	}
	if err := a.initVisitLog(ctx); err != nil {
		return nil, fmt.Errorf("app: init visit log: %w", err)
	}
	a.initStage()
	a.initHealth()

	return a, nil
}

// initCatalog loads the exhibit catalog if one wasn't injected.
func (a *App) initCatalog() error {
	if a.catalog != nil {
		return nil
	}
	cat, err := gallery.LoadCatalog(a.cfg.Hall.CatalogPath)
	if err != nil {
		return err
	}
	a.catalog = cat
	_, restricted := cat.Restricted()
	slog.Info("exhibit catalog loaded",
		"hall", cat.Hall().Name,
		"public", len(cat.Public()),
		"restricted_wing", restricted,
		"default", cat.Default().ID,
	)
	return nil
}

// initVisitLog connects the PostgreSQL visit log, or falls back to the
// in-memory log when no DSN is configured.
func (a *App) initVisitLog(ctx context.Context) error {
	if a.visits != nil {
		return nil
	}

	dsn := a.cfg.VisitLog.PostgresDSN
	if dsn == "" {
		slog.Info("visit log kept in memory; set a postgres dsn to persist it")
		a.visits = visitlog.NewMemStore()
		return nil
	}

	store, err := visitlog.NewPGStore(ctx, dsn)
	if err != nil {
		return err
	}
	// Best-effort log: a dead database drops events instead of stalling
	// the tour.
	a.visits = visitlog.NewResilientStore(store, 5, 30*time.Second)
	a.closers = append(a.closers, func() error {
		store.Close()
		return nil
	})
	return nil
}

// initStage builds the frame slot, slideshow engine, cue controller and the
// publisher from the config.
func (a *App) initStage() {
	a.slot = &stage.FrameSlot{}

	if a.loader == nil {
		a.loader = stage.NewFileLoader(a.cfg.Hall.AssetsRoot)
	}

	var engineOpts []stage.EngineOption
	if a.cfg.Hall.SlideDwell > 0 {
		engineOpts = append(engineOpts, stage.WithDwell(a.cfg.Hall.SlideDwell))
	}
	a.slideshow = stage.NewEngine(a.slot, a.loader, engineOpts...)

	a.cues = stage.NewCueController(a.ports.Audio)

	var pubOpts []stage.PublisherOption
	if a.cfg.Hall.FrameRate > 0 {
		pubOpts = append(pubOpts, stage.WithFrameRate(a.cfg.Hall.FrameRate))
	}
	a.publisher = stage.NewPublisher(a.slot, a.ports.Video, pubOpts...)
}

// initHealth registers readiness checkers for the subsystems that can fail
// independently of the process.
func (a *App) initHealth() {
	a.health = health.New(
		health.Checker{Name: "visitlog", Check: func(ctx context.Context) error {
			_, err := a.visits.Recent(ctx, 1)
			return err
		}},
		health.Checker{Name: "display", Check: func(_ context.Context) error {
			if !a.slideshow.Running() {
				return errors.New("no slideshow running")
			}
			return nil
		}},
	)
}

// Run connects the dialogue session, brings the hall to its opening state and
// blocks until ctx is cancelled. The frame publisher and the HTTP endpoints
// run as part of the group; a fatal error in either tears the session down.
func (a *App) Run(ctx context.Context) error {
	session, err := a.ports.Dialogue.Connect(ctx, dialogue.SessionConfig{
		Pipeline:     a.cfg.Pipeline,
		Instructions: persona.Curator,
	})
	if err != nil {
		return fmt.Errorf("app: connect dialogue session: %w", err)
	}
	a.session = session
	a.closers = append(a.closers, session.Close)

	cues := curatorCues(a.cfg.Cues)
	a.curator = curator.New(ctx, curator.Config{
		Catalog:    a.catalog,
		Slideshow:  a.slideshow,
		Cues:       a.cues,
		Matcher:    gallery.NewMatcher(gallery.WithPhoneticFallback(0)),
		AccessRule: curator.PhraseRule(a.cfg.Access),
		EscapeRule: curator.PhraseRule(a.cfg.Escape),
		IdleCue:    cues.idle,
		AlertCue:   cues.alert,
		Persona:    session,
		Visits:     a.visits,
	})

	if err := a.curator.Bind(ctx, session); err != nil {
		return fmt.Errorf("app: bind tools: %w", err)
	}
	if err := a.curator.StartOpening(ctx); err != nil {
		return fmt.Errorf("app: start opening exhibit: %w", err)
	}
	if err := session.Say(ctx, persona.Greeting, true); err != nil {
		slog.Warn("greeting failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.publisher.Run(gctx)
	})

	if a.cfg.Server.ListenAddr != "" {
		srv := a.newHTTPServer()
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("app: http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutCtx)
		})
	}

	g.Go(func() error {
		a.drainTranscripts(gctx, session)
		return nil
	})

	slog.Info("hall running", "hall", a.catalog.Hall().Name)
	return g.Wait()
}

// newHTTPServer assembles the health and metrics endpoints.
func (a *App) newHTTPServer() *http.Server {
	mux := http.NewServeMux()
	a.health.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	return &http.Server{
		Addr:              a.cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// drainTranscripts logs final transcript entries until the session or the
// context ends.
func (a *App) drainTranscripts(ctx context.Context, session dialogue.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-session.Transcripts():
			if !ok {
				return
			}
			slog.Debug("transcript", "role", entry.Role, "text", entry.Text)
		}
	}
}

// Shutdown stops the stage and tears down all subsystems in reverse-init
// order. It respects the context deadline: if ctx expires before all closers
// finish, remaining closers are skipped and the context error is returned.
func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error
	a.stopOnce.Do(func() {
		slog.Info("shutting down", "closers", len(a.closers))

		if a.curator != nil {
			a.curator.Shutdown()
		} else {
			a.slideshow.Stop()
			a.cues.Stop()
		}

		for i := len(a.closers) - 1; i >= 0; i-- {
			select {
			case <-ctx.Done():
				slog.Warn("shutdown deadline exceeded", "remaining", i+1)
				shutdownErr = ctx.Err()
				return
			default:
			}
			if err := a.closers[i](); err != nil {
				slog.Warn("closer error", "index", i, "error", err)
			}
		}

		slog.Info("shutdown complete")
	})
	return shutdownErr
}

type cuePair struct {
	idle  media.Cue
	alert media.Cue
}

// curatorCues converts the config cue blocks into looping media cues.
func curatorCues(c config.CuesConfig) cuePair {
	return cuePair{
		idle:  media.Cue{Name: c.Idle.Name, Volume: c.Idle.Volume, Loop: true},
		alert: media.Cue{Name: c.Alert.Name, Volume: c.Alert.Volume, Loop: true},
	}
}
