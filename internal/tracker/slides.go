package tracker

import (
	"go.uber.org/zap"

	"github.com/runnerr0/readmark/internal/docctx"
	"github.com/runnerr0/readmark/internal/position"
)

// Slides tracks position within a slide deck. It binds to the deck's ready
// signal, hands any applicable stored record to the orchestrator's resume
// path, then persists the current indices on every slide change and once
// more on unload.
type Slides struct {
	ctx    docctx.Context
	store  *position.Store
	deck   Deck
	events PageEvents
	log    *zap.Logger
}

// NewSlides creates a slide tracker for the given deck context.
func NewSlides(ctx docctx.Context, store *position.Store, deck Deck, events PageEvents, log *zap.Logger) *Slides {
	if log == nil {
		log = zap.NewNop()
	}
	return &Slides{ctx: ctx, store: store, deck: deck, events: events, log: log}
}

// Start arms the ready binding. When the deck reports ready, onStored is
// invoked with the stored record if one applies to this document and
// carries slide indices; the orchestrator decides what to do with it.
// Tracking of further slide changes begins either way.
func (s *Slides) Start(onStored func(rec *position.Record)) {
	s.deck.OnReady(func() {
		// Read before tracking starts, since the first slide change
		// overwrites the slot. Tracking subscribes before the resume
		// path runs so an unload save lands ahead of the abandonment
		// guard's clear.
		rec := s.store.Load(s.ctx)

		s.deck.OnSlideChange(func(h, v, f int) {
			s.saveIndices(h, v, f)
		})

		s.events.OnUnload(func() {
			s.saveIndices(s.deck.CurrentIndices())
		})

		s.log.Debug("slide tracking started", zap.String("key", s.ctx.TrackingKey))

		if rec != nil && rec.Slide != nil && onStored != nil {
			onStored(rec)
		}
	})
}

func (s *Slides) saveIndices(h, v, f int) {
	s.store.Save(s.ctx, position.Fields{
		Slide: &position.SlideIndices{H: h, V: v, F: f},
	})
}
