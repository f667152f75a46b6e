// Package curator implements the exhibit state machine that sits between the
// dialogue engine's tool calls and the hall's display and audio stages. It
// owns the trap state, gates the restricted wing behind a passphrase, and
// returns the narrative line each operation should hand back to the model.
//
// Every operation is total: bad input, denied access and wrong-state requests
// all come back as a [Result] with Denied set, never as an error. Errors are
// reserved for infrastructure failures underneath (the stage, the visit log).
package curator

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/marloweav/heritagehall/internal/gallery"
	"github.com/marloweav/heritagehall/internal/observe"
	"github.com/marloweav/heritagehall/internal/persona"
	"github.com/marloweav/heritagehall/internal/stage"
	"github.com/marloweav/heritagehall/internal/visitlog"
	"github.com/marloweav/heritagehall/pkg/media"
)

// PhraseRule is one passphrase gate: a request passes when any literal
// appears in the normalized utterance, or when every ordered token appears
// in order. See [gallery.Matcher.Matches].
type PhraseRule struct {
	Literals      []string `yaml:"literals"`
	OrderedTokens []string `yaml:"orderedTokens"`
}

// PersonaSwitcher is the slice of the dialogue session the curator needs to
// swap the active persona when the trap engages or releases.
type PersonaSwitcher interface {
	UpdateInstructions(instructions string) error
}

// Result is the outcome of one state-machine operation. Text is the line to
// hand back to the dialogue engine; Denied reports whether the request was
// refused rather than carried out.
type Result struct {
	Text   string
	Denied bool
}

func granted(text string) Result { return Result{Text: text} }
func denied(text string) Result  { return Result{Text: text, Denied: true} }

// Config assembles a [Curator]. Catalog, Slideshow and Cues are required;
// the rest degrade gracefully when absent.
type Config struct {
	Catalog   *gallery.Catalog
	Slideshow *stage.Engine
	Cues      *stage.CueController

	// Matcher evaluates passphrase attempts. Nil falls back to a matcher
	// without phonetic fallback.
	Matcher *gallery.Matcher

	// AccessRule gates the restricted wing; EscapeRule releases the trap.
	AccessRule PhraseRule
	EscapeRule PhraseRule

	// IdleCue plays during normal operation, AlertCue while trapped.
	IdleCue  media.Cue
	AlertCue media.Cue

	// Persona receives instruction swaps on trap transitions. Optional.
	Persona PersonaSwitcher

	// Visits records visitor-facing events. Optional.
	Visits visitlog.Store

	Log     *slog.Logger
	Metrics *observe.Metrics
}

// Curator is the per-session exhibit state machine. Safe for concurrent use;
// operations serialise on an internal mutex so trap transitions and slideshow
// swaps never interleave.
type Curator struct {
	cfg Config

	// base outlives any single tool call. Slideshow loops started by an
	// operation run on it, not on the call's context.
	base context.Context

	mu      sync.Mutex
	trapped bool
}

// New creates a Curator. base bounds the lifetime of slideshow loops and
// background cues started by operations; cancel it to wind the session down.
func New(base context.Context, cfg Config) *Curator {
	if cfg.Matcher == nil {
		cfg.Matcher = gallery.NewMatcher()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.DefaultMetrics()
	}
	return &Curator{cfg: cfg, base: base}
}

// Trapped reports whether the session is currently in the trapped state.
func (c *Curator) Trapped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trapped
}

// StartOpening brings the hall to its resting state: default exhibit on the
// display, idle cue in the background. Called once at session start. Tools
// are live before the opening runs, so a trap that has already engaged wins:
// the opening becomes a no-op rather than unsealing the hall.
func (c *Curator) StartOpening(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.trapped {
		return nil
	}

	def := c.cfg.Catalog.Default()
	if err := c.cfg.Slideshow.Start(c.base, def.ID, def.Images); err != nil {
		return err
	}
	if err := c.cfg.Cues.Switch(c.base, c.cfg.IdleCue); err != nil {
		c.cfg.Log.Warn("idle cue failed to start", "error", err)
	}
	c.record(ctx, visitlog.EventExhibitShown, def.ID, "opening")
	return nil
}

// StartExhibit switches the display to the named public exhibit.
//
// While trapped every navigation request is refused. Unknown ids and the
// restricted exhibit are refused with distinct lines; the restricted line
// deliberately invites an authorisation attempt without naming the phrase.
func (c *Curator) StartExhibit(ctx context.Context, id string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.trapped {
		c.intent(ctx, "start_exhibit", "denied")
		return denied(persona.TrapRefusal)
	}

	ex, ok := c.cfg.Catalog.Lookup(id)
	if !ok {
		c.intent(ctx, "start_exhibit", "denied")
		c.record(ctx, visitlog.EventExhibitDenied, id, "unknown")
		return denied(persona.DeniedUnknownExhibit)
	}
	if ex.Restricted {
		c.intent(ctx, "start_exhibit", "denied")
		c.record(ctx, visitlog.EventExhibitDenied, id, "restricted")
		return denied(persona.DeniedRestrictedExhibit)
	}

	if err := c.cfg.Slideshow.Start(c.base, ex.ID, ex.Images); err != nil {
		c.cfg.Log.Error("slideshow start failed", "exhibit", ex.ID, "error", err)
		c.intent(ctx, "start_exhibit", "denied")
		return denied(persona.DeniedUnknownExhibit)
	}

	c.intent(ctx, "start_exhibit", "ok")
	c.record(ctx, visitlog.EventExhibitShown, ex.ID, "")
	return granted(persona.ExhibitConfirmation(ex.Title, ex.Blurb))
}

// RequestRestrictedAccess checks phrase against the access rule and, on a
// match, starts the restricted exhibit's slideshow. The denial line never
// reveals how close the attempt was.
func (c *Curator) RequestRestrictedAccess(ctx context.Context, phrase string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.trapped {
		c.intent(ctx, "request_access", "denied")
		return denied(persona.TrapRefusal)
	}

	ex, ok := c.cfg.Catalog.Restricted()
	if !ok {
		c.intent(ctx, "request_access", "denied")
		return denied(persona.DeniedUnknownExhibit)
	}

	if !c.cfg.Matcher.Matches(phrase, c.cfg.AccessRule.Literals, c.cfg.AccessRule.OrderedTokens) {
		c.countAccess(ctx, "denied")
		c.intent(ctx, "request_access", "denied")
		c.record(ctx, visitlog.EventAccessDenied, ex.ID, "")
		return denied(persona.AccessDenied)
	}

	if err := c.cfg.Slideshow.Start(c.base, ex.ID, ex.Images); err != nil {
		c.cfg.Log.Error("restricted slideshow start failed", "exhibit", ex.ID, "error", err)
		c.countAccess(ctx, "denied")
		c.intent(ctx, "request_access", "denied")
		return denied(persona.AccessDenied)
	}

	c.countAccess(ctx, "granted")
	c.intent(ctx, "request_access", "ok")
	c.record(ctx, visitlog.EventAccessGranted, ex.ID, "")
	return granted(persona.AccessGranted(ex.Title))
}

// InitiateTrap moves the session into the trapped state: alert cue replaces
// the idle loop and the dialogue persona inverts. Idempotent; a second call
// only restates the containment line. The current slideshow keeps running.
func (c *Curator) InitiateTrap(ctx context.Context) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.trapped {
		c.intent(ctx, "initiate_trap", "ok")
		return granted(persona.TrapEngaged)
	}
	c.trapped = true

	if err := c.cfg.Cues.Switch(c.base, c.cfg.AlertCue); err != nil {
		c.cfg.Log.Warn("alert cue failed to start", "error", err)
	}
	c.switchPersona(persona.Trapped)

	c.cfg.Metrics.TrapState.Add(ctx, 1)
	c.intent(ctx, "initiate_trap", "ok")
	c.record(ctx, visitlog.EventTrapEngaged, "", "")
	c.cfg.Log.Info("trap engaged")
	return granted(persona.TrapEngaged)
}

// ReleaseTrap checks phrase against the escape rule. Outside the trapped
// state it reports that there is nothing to lift. A mismatch while trapped is
// refused with the standing containment line, with no hint of the phrase.
func (c *Curator) ReleaseTrap(ctx context.Context, phrase string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.trapped {
		c.intent(ctx, "release_trap", "denied")
		return denied(persona.ReleaseNotTrapped)
	}

	if !c.cfg.Matcher.Matches(phrase, c.cfg.EscapeRule.Literals, c.cfg.EscapeRule.OrderedTokens) {
		c.intent(ctx, "release_trap", "denied")
		c.record(ctx, visitlog.EventReleaseDenied, "", "")
		return denied(persona.TrapRefusal)
	}
	c.trapped = false

	if err := c.cfg.Cues.Switch(c.base, c.cfg.IdleCue); err != nil {
		c.cfg.Log.Warn("idle cue failed to restart", "error", err)
	}
	c.switchPersona(persona.Curator)

	def := c.cfg.Catalog.Default()
	if err := c.cfg.Slideshow.Start(c.base, def.ID, def.Images); err != nil {
		c.cfg.Log.Error("default slideshow restart failed", "exhibit", def.ID, "error", err)
	}

	c.cfg.Metrics.TrapState.Add(ctx, -1)
	c.intent(ctx, "release_trap", "ok")
	c.record(ctx, visitlog.EventTrapReleased, "", "")
	c.cfg.Log.Info("trap released")
	return granted(persona.TrapReleased)
}

// StopSlideshow returns the display to the default exhibit. Refused while
// trapped; the display is part of the containment theatre.
func (c *Curator) StopSlideshow(ctx context.Context) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.trapped {
		c.intent(ctx, "stop_slideshow", "denied")
		return denied(persona.TrapRefusal)
	}

	def := c.cfg.Catalog.Default()
	if err := c.cfg.Slideshow.Start(c.base, def.ID, def.Images); err != nil {
		c.cfg.Log.Error("default slideshow restart failed", "exhibit", def.ID, "error", err)
	}

	c.intent(ctx, "stop_slideshow", "ok")
	c.record(ctx, visitlog.EventExhibitShown, def.ID, "stop")
	return granted(persona.SlideshowStopped)
}

// Shutdown stops the slideshow and background cue. The dialogue session is
// closed by its owner.
func (c *Curator) Shutdown() {
	c.cfg.Slideshow.Stop()
	c.cfg.Cues.Stop()
}

func (c *Curator) switchPersona(instructions string) {
	if c.cfg.Persona == nil {
		return
	}
	if err := c.cfg.Persona.UpdateInstructions(instructions); err != nil {
		c.cfg.Log.Warn("persona switch failed", "error", err)
	}
}

func (c *Curator) record(ctx context.Context, typ visitlog.EventType, exhibitID, detail string) {
	if c.cfg.Visits == nil {
		return
	}
	e := visitlog.Event{Type: typ, ExhibitID: exhibitID, Detail: detail}
	if err := c.cfg.Visits.Record(ctx, e); err != nil {
		c.cfg.Log.Warn("visit log write failed", "event", string(typ), "error", err)
	}
}

func (c *Curator) intent(ctx context.Context, op, status string) {
	c.cfg.Metrics.RecordIntent(ctx, op, status)
}

func (c *Curator) countAccess(ctx context.Context, status string) {
	c.cfg.Metrics.AccessAttempts.Add(ctx, 1,
		metric.WithAttributes(observe.Attr("status", status)))
}
