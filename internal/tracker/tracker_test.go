package tracker

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/runnerr0/readmark/internal/docctx"
	"github.com/runnerr0/readmark/internal/position"
	"github.com/runnerr0/readmark/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakePage implements PageEvents and lets tests fire signals by hand.
type fakePage struct {
	scroll []func(float64)
	hash   []func(string)
	click  []func(string, bool)
	unload []func()
}

func (p *fakePage) OnScroll(fn func(y float64))                  { p.scroll = append(p.scroll, fn) }
func (p *fakePage) OnHashChange(fn func(hash string))            { p.hash = append(p.hash, fn) }
func (p *fakePage) OnLinkClick(fn func(href string, out bool))   { p.click = append(p.click, fn) }
func (p *fakePage) OnUnload(fn func())                           { p.unload = append(p.unload, fn) }

func (p *fakePage) fireScroll(y float64) {
	for _, fn := range p.scroll {
		fn(y)
	}
}
func (p *fakePage) fireHash(h string) {
	for _, fn := range p.hash {
		fn(h)
	}
}
func (p *fakePage) fireClick(href string, out bool) {
	for _, fn := range p.click {
		fn(href, out)
	}
}
func (p *fakePage) fireUnload() {
	for _, fn := range p.unload {
		fn()
	}
}

// manualTimer is a Timer fired by the test instead of the clock.
type manualTimer struct {
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// manualTimers hands out manualTimer instances and can fire the latest one.
type manualTimers struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (m *manualTimers) factory(_ time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// fireLatest runs the most recently scheduled timer if still pending.
func (m *manualTimers) fireLatest() {
	m.mu.Lock()
	var latest *manualTimer
	if len(m.timers) > 0 {
		latest = m.timers[len(m.timers)-1]
	}
	m.mu.Unlock()
	if latest != nil && !latest.stopped {
		latest.stopped = true
		latest.fn()
	}
}

// pendingCount reports how many timers were scheduled in total.
func (m *manualTimers) scheduled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func newTestScroll(t *testing.T, doc docctx.Document) (*Scroll, *fakePage, *position.Store, docctx.Context, *manualTimers) {
	t.Helper()
	ctx := docctx.Resolve(doc)
	store := position.NewStore(storage.NewMemoryKV(), nil)
	page := &fakePage{}
	timers := &manualTimers{}
	tr := NewScroll(ctx, store, page, DefaultScrollDebounce, nil).WithTimerFactory(timers.factory)
	return tr, page, store, ctx, timers
}

func TestScroll_DebounceCoalescesBurst(t *testing.T) {
	tr, page, store, ctx, timers := newTestScroll(t, docctx.Document{Path: "/a.html"})
	tr.Start(0, "")

	// Ten scroll events in a burst: each reschedules, none lands yet.
	for y := 10; y <= 100; y += 10 {
		page.fireScroll(float64(y))
	}
	assert.Nil(t, store.Load(ctx), "no save before the quiet window elapses")
	assert.Equal(t, 10, timers.scheduled())

	// Quiet window elapses: exactly one save, at the last value.
	timers.fireLatest()
	rec := store.Load(ctx)
	require.NotNil(t, rec)
	assert.Equal(t, 100.0, rec.ScrollY)
}

func TestScroll_BookSavesChapterAtStart(t *testing.T) {
	tr, _, store, ctx, _ := newTestScroll(t, docctx.Document{
		Path: "/guide/ch3.html", HasPageNav: true, HasSidebar: true,
	})
	tr.Start(0, "")

	rec := store.Load(ctx)
	require.NotNil(t, rec, "book start saves even with zero scroll")
	assert.Equal(t, "/guide/ch3.html", rec.SourceURL)
	assert.Equal(t, 0.0, rec.ScrollY)
}

func TestScroll_PageDoesNotSaveAtStart(t *testing.T) {
	tr, _, store, ctx, _ := newTestScroll(t, docctx.Document{Path: "/a.html"})
	tr.Start(0, "")

	assert.Nil(t, store.Load(ctx))
}

func TestScroll_HashChangeSavesImmediately(t *testing.T) {
	tr, page, store, ctx, _ := newTestScroll(t, docctx.Document{Path: "/a.html"})
	tr.Start(0, "")

	page.fireScroll(340)
	page.fireHash("#section-2")

	rec := store.Load(ctx)
	require.NotNil(t, rec)
	assert.Equal(t, "#section-2", rec.Hash)
	assert.Equal(t, 340.0, rec.ScrollY)
}

func TestScroll_OutboundClickSavesImmediately(t *testing.T) {
	tr, page, store, ctx, _ := newTestScroll(t, docctx.Document{Path: "/a.html"})
	tr.Start(0, "")

	page.fireScroll(120)
	page.fireClick("https://elsewhere.example/", true)

	rec := store.Load(ctx)
	require.NotNil(t, rec)
	assert.Equal(t, 120.0, rec.ScrollY)
}

func TestScroll_InPageClickDoesNotSave(t *testing.T) {
	tr, page, store, ctx, _ := newTestScroll(t, docctx.Document{Path: "/a.html"})
	tr.Start(0, "")

	page.fireClick("#footnote-3", false)

	assert.Nil(t, store.Load(ctx))
}

func TestScroll_UnloadSavesAndCancelsPending(t *testing.T) {
	tr, page, store, ctx, timers := newTestScroll(t, docctx.Document{Path: "/a.html"})
	tr.Start(0, "")

	page.fireScroll(777)
	page.fireUnload()

	rec := store.Load(ctx)
	require.NotNil(t, rec)
	assert.Equal(t, 777.0, rec.ScrollY)

	// The debounced save was cancelled; firing it would be a no-op anyway,
	// but the timer must already be stopped.
	timers.mu.Lock()
	stopped := timers.timers[len(timers.timers)-1].stopped
	timers.mu.Unlock()
	assert.True(t, stopped)
}

func TestScroll_RealTimerFires(t *testing.T) {
	ctx := docctx.Resolve(docctx.Document{Path: "/a.html"})
	store := position.NewStore(storage.NewMemoryKV(), nil)
	page := &fakePage{}
	tr := NewScroll(ctx, store, page, 10*time.Millisecond, nil)
	defer tr.Stop()

	tr.Start(0, "")
	page.fireScroll(55)

	require.Eventually(t, func() bool {
		return store.Load(ctx) != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 55.0, store.Load(ctx).ScrollY)
}

// fakeDeck implements Deck with test-controlled signals.
type fakeDeck struct {
	ready   []func()
	change  []func(int, int, int)
	h, v, f int
	jumps   [][3]int
}

func (d *fakeDeck) OnReady(fn func())                 { d.ready = append(d.ready, fn) }
func (d *fakeDeck) OnSlideChange(fn func(h, v, f int)) { d.change = append(d.change, fn) }
func (d *fakeDeck) CurrentIndices() (int, int, int)   { return d.h, d.v, d.f }
func (d *fakeDeck) Slide(h, v, f int)                 { d.jumps = append(d.jumps, [3]int{h, v, f}) }

func (d *fakeDeck) fireReady() {
	for _, fn := range d.ready {
		fn()
	}
}
func (d *fakeDeck) fireChange(h, v, f int) {
	d.h, d.v, d.f = h, v, f
	for _, fn := range d.change {
		fn(h, v, f)
	}
}

func TestSlides_ReadyHandsStoredRecordToResumePath(t *testing.T) {
	ctx := docctx.Resolve(docctx.Document{Path: "/talk.html", HasDeck: true})
	store := position.NewStore(storage.NewMemoryKV(), nil)
	store.Save(ctx, position.Fields{Slide: &position.SlideIndices{H: 7, V: 0, F: 1}})

	deck := &fakeDeck{}
	page := &fakePage{}
	var got *position.Record
	NewSlides(ctx, store, deck, page, nil).Start(func(rec *position.Record) { got = rec })

	deck.fireReady()

	require.NotNil(t, got)
	assert.Equal(t, 7, got.Slide.H)
}

func TestSlides_ReadyWithoutRecordSkipsResumePath(t *testing.T) {
	ctx := docctx.Resolve(docctx.Document{Path: "/talk.html", HasDeck: true})
	store := position.NewStore(storage.NewMemoryKV(), nil)

	deck := &fakeDeck{}
	page := &fakePage{}
	called := false
	NewSlides(ctx, store, deck, page, nil).Start(func(*position.Record) { called = true })

	deck.fireReady()
	assert.False(t, called)
}

func TestSlides_ScrollOnlyRecordSkipsResumePath(t *testing.T) {
	ctx := docctx.Resolve(docctx.Document{Path: "/talk.html", HasDeck: true})
	store := position.NewStore(storage.NewMemoryKV(), nil)
	store.Save(ctx, position.Fields{ScrollY: 500}) // no slide indices

	deck := &fakeDeck{}
	page := &fakePage{}
	called := false
	NewSlides(ctx, store, deck, page, nil).Start(func(*position.Record) { called = true })

	deck.fireReady()
	assert.False(t, called)
}

func TestSlides_ChangePersistsIndices(t *testing.T) {
	ctx := docctx.Resolve(docctx.Document{Path: "/talk.html", HasDeck: true})
	store := position.NewStore(storage.NewMemoryKV(), nil)

	deck := &fakeDeck{}
	page := &fakePage{}
	NewSlides(ctx, store, deck, page, nil).Start(nil)

	deck.fireReady()
	deck.fireChange(3, 1, 0)

	rec := store.Load(ctx)
	require.NotNil(t, rec)
	require.NotNil(t, rec.Slide)
	assert.Equal(t, 3, rec.Slide.H)
	assert.Equal(t, 1, rec.Slide.V)
}

func TestSlides_UnloadPersistsCurrentIndices(t *testing.T) {
	ctx := docctx.Resolve(docctx.Document{Path: "/talk.html", HasDeck: true})
	store := position.NewStore(storage.NewMemoryKV(), nil)

	deck := &fakeDeck{h: 5, v: 2, f: 1}
	page := &fakePage{}
	NewSlides(ctx, store, deck, page, nil).Start(nil)

	deck.fireReady()
	page.fireUnload()

	rec := store.Load(ctx)
	require.NotNil(t, rec)
	require.NotNil(t, rec.Slide)
	assert.Equal(t, [3]int{5, 2, 1}, [3]int{rec.Slide.H, rec.Slide.V, rec.Slide.F})
}
