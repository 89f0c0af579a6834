package tracker

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/readmark/internal/docctx"
	"github.com/runnerr0/readmark/internal/position"
)

// Scroll tracks position on standalone pages and book chapters for the
// remainder of a load. Scroll offsets are persisted after a quiet window;
// hash changes, outbound link activations, and unload persist immediately.
type Scroll struct {
	ctx    docctx.Context
	store  *position.Store
	events PageEvents
	deb    *debouncer
	log    *zap.Logger

	mu       sync.Mutex
	lastY    float64
	lastHash string
}

// NewScroll creates a scroll tracker for the given context. debounce <= 0
// uses the default quiet window.
func NewScroll(ctx docctx.Context, store *position.Store, events PageEvents, debounce time.Duration, log *zap.Logger) *Scroll {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scroll{
		ctx:    ctx,
		store:  store,
		events: events,
		deb:    newDebouncer(debounce, nil),
		log:    log,
	}
}

// WithTimerFactory overrides the debounce timer source. Test hook.
func (t *Scroll) WithTimerFactory(f TimerFactory) *Scroll {
	t.deb.newTimer = f
	return t
}

// Start seeds the tracker with the position at load time and subscribes to
// the page signals. For a book chapter it saves immediately, before any
// scrolling: the chapter identity itself is the thing being remembered,
// whatever the scroll depth.
func (t *Scroll) Start(initialY float64, initialHash string) {
	t.mu.Lock()
	t.lastY = initialY
	t.lastHash = initialHash
	t.mu.Unlock()

	if t.ctx.IsBook() {
		t.save()
	}

	t.events.OnScroll(func(y float64) {
		t.mu.Lock()
		t.lastY = y
		t.mu.Unlock()
		t.deb.Trigger(t.save)
	})

	t.events.OnHashChange(func(hash string) {
		t.mu.Lock()
		t.lastHash = hash
		t.mu.Unlock()
		t.save()
	})

	t.events.OnLinkClick(func(href string, outbound bool) {
		if !outbound {
			return
		}
		// The reader is leaving; a pending debounced save may never
		// fire, so capture now.
		t.save()
	})

	t.events.OnUnload(func() {
		t.deb.Stop()
		t.save()
	})

	t.log.Debug("scroll tracking started",
		zap.String("kind", t.ctx.Kind.String()),
		zap.String("key", t.ctx.TrackingKey))
}

// Stop cancels any pending debounced save.
func (t *Scroll) Stop() {
	t.deb.Stop()
}

func (t *Scroll) save() {
	t.mu.Lock()
	y, hash := t.lastY, t.lastHash
	t.mu.Unlock()
	t.store.Save(t.ctx, position.Fields{ScrollY: y, Hash: hash})
}
