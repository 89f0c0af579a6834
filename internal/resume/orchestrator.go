package resume

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/readmark/internal/docctx"
	"github.com/runnerr0/readmark/internal/position"
	"github.com/runnerr0/readmark/internal/session"
	"github.com/runnerr0/readmark/internal/tracker"
)

// Navigator is the host capability for applying a restore: either a jump
// to another URL or a scroll/hash restore on the current page.
type Navigator interface {
	Navigate(url string)
	Restore(scrollY float64, hash string)
}

// Prompter asks the visitor a yes/no question. *prompt.Controller satisfies
// this; a dropped prompt (cooldown) fires neither callback.
type Prompter interface {
	Show(message string, onAccept, onDecline func())
}

// Tracker is a started position tracker. *tracker.Scroll satisfies this.
type Tracker interface {
	Start(initialY float64, initialHash string)
}

// Config carries the orchestrator's collaborators for one page load.
type Config struct {
	Context         docctx.Context
	Store           *position.Store
	Session         *session.Tracker
	Prompts         Prompter
	Nav             Navigator
	Page            tracker.PageEvents
	ScrollThreshold float64
	Log             *zap.Logger
}

// Orchestrator runs the resume decision for a single page load and wires
// up tracking for the remainder of the visit.
type Orchestrator struct {
	cfg   Config
	log   *zap.Logger
	now   func() time.Time
	state State

	guardArmed bool
}

// New creates an Orchestrator. The zero ScrollThreshold uses the default.
func New(cfg Config) *Orchestrator {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{cfg: cfg, log: log, now: time.Now, state: StateIdle}
}

// WithClock overrides the orchestrator's time source. Test hook.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Run evaluates the decision table for a page or book load, applies the
// chosen action, and starts scroll tracking. initialY and initialHash seed
// the tracker with the position at load time.
func (o *Orchestrator) Run(scroll Tracker, initialY float64, initialHash string) {
	stored := o.cfg.Store.Load(o.cfg.Context)
	dec := Decide(stored, o.cfg.Session.Active(), o.cfg.Context, o.cfg.ScrollThreshold)
	o.state = StateEvaluated

	o.log.Debug("resume decision",
		zap.String("kind", o.cfg.Context.Kind.String()),
		zap.String("key", o.cfg.Context.TrackingKey),
		zap.String("action", dec.Action.String()),
		zap.Bool("stored", stored != nil))

	switch dec.Action {
	case ActionSilentRestore:
		o.cfg.Nav.Restore(dec.ScrollY, dec.Hash)
		o.cfg.Session.MarkActive()
		o.state = StateSilentRestore
		scroll.Start(initialY, initialHash)

	case ActionPrompt:
		// Tracking starts before the guard so an unload save lands
		// first and the guard's clear wins.
		scroll.Start(initialY, initialHash)
		o.armGuard()
		o.state = StatePrompted
		o.cfg.Prompts.Show(dec.Message,
			func() { o.acceptPage(dec) },
			func() { o.decline() },
		)

	default:
		o.state = StateNoOp
		scroll.Start(initialY, initialHash)
	}
}

// RunDeck wires the slide-deck resume path: when the deck reports ready
// with an applicable stored record, the visitor is offered a jump phrased
// in elapsed time; slide tracking runs either way.
func (o *Orchestrator) RunDeck(slides *tracker.Slides, deck tracker.Deck) {
	slides.Start(func(rec *position.Record) {
		o.armGuard()
		o.state = StatePrompted

		msg := fmt.Sprintf("You left this presentation %s ago. Resume where you left off?",
			humanAge(rec.Age(o.now())))
		idx := *rec.Slide
		o.cfg.Prompts.Show(msg,
			func() { o.acceptDeck(deck, idx) },
			func() { o.decline() },
		)
	})
}

// acceptPage applies an accepted page/book restore: a navigation for a
// cross-chapter resume, a scroll/hash restore otherwise.
func (o *Orchestrator) acceptPage(dec Decision) {
	o.disarmGuard()
	o.cfg.Session.MarkActive()
	o.state = StateResumed

	if dec.NavigateTo != "" {
		o.cfg.Nav.Navigate(dec.NavigateTo)
		return
	}
	o.cfg.Nav.Restore(dec.ScrollY, dec.Hash)
}

// acceptDeck jumps the deck to the stored indices.
func (o *Orchestrator) acceptDeck(deck tracker.Deck, idx position.SlideIndices) {
	o.disarmGuard()
	o.cfg.Session.MarkActive()
	o.state = StateResumed
	deck.Slide(idx.H, idx.V, idx.F)
}

// decline forgets the stored record.
func (o *Orchestrator) decline() {
	o.disarmGuard()
	o.cfg.Session.MarkActive()
	o.cfg.Store.Clear()
	o.state = StateDeclined
}

// armGuard registers the navigation-abandonment guard: leaving the page
// with the prompt unanswered clears the record and latches the session, so
// a later visit is not re-offered a stale prompt.
func (o *Orchestrator) armGuard() {
	o.guardArmed = true
	o.cfg.Page.OnUnload(func() {
		if !o.guardArmed {
			return
		}
		o.guardArmed = false
		o.cfg.Store.Clear()
		o.cfg.Session.MarkActive()
		o.log.Debug("prompt abandoned; stored position cleared")
	})
}

// disarmGuard must run before the session flag is marked on a response,
// so unload cleanup cannot double-fire after the visitor already chose.
func (o *Orchestrator) disarmGuard() {
	o.guardArmed = false
}
