package bridge

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/readmark/internal/config"
	"github.com/runnerr0/readmark/internal/docctx"
	"github.com/runnerr0/readmark/internal/position"
	"github.com/runnerr0/readmark/internal/prompt"
	"github.com/runnerr0/readmark/internal/resume"
	"github.com/runnerr0/readmark/internal/session"
	"github.com/runnerr0/readmark/internal/storage"
	"github.com/runnerr0/readmark/internal/tracker"
)

// maxEventLine bounds a single host event line.
const maxEventLine = 64 * 1024

// Bridge binds a host to the resume engine over a line-oriented JSON
// protocol: host events in on r, engine actions out on w. One Bridge is
// one browsing session; durable state flows through the given position
// store while session state lives and dies with the Bridge.
//
// The Bridge itself implements the engine's host capabilities — page
// events, prompt surface, navigator, and deck — by translating between
// protocol messages and callbacks.
type Bridge struct {
	in  *bufio.Scanner
	out *json.Encoder
	wmu sync.Mutex

	store  *position.Store
	sess   *session.Tracker
	cfg    *config.Config
	ignore *config.IgnoreMatcher
	log    *zap.Logger

	timers tracker.TimerFactory

	// Per-load wiring, reset on every load event.
	scrollFns []func(float64)
	hashFns   []func(string)
	clickFns  []func(string, bool)
	unloadFns []func()
	readyFns  []func()
	slideFns  []func(int, int, int)

	active   string
	h, v, f  int
	tracking *tracker.Scroll
	prompts  *prompt.Controller
}

// New creates a Bridge reading host events from r and writing actions to w.
func New(r io.Reader, w io.Writer, store *position.Store, cfg *config.Config, log *zap.Logger) *Bridge {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxEventLine)

	return &Bridge{
		in:     scanner,
		out:    json.NewEncoder(w),
		store:  store,
		sess:   session.NewTracker(storage.NewMemoryKV(), log),
		cfg:    cfg,
		ignore: cfg.CompileIgnore(),
		log:    log,
		timers: tracker.AfterFunc,
	}
}

// WithTimerFactory overrides the debounce timer source. Test hook.
func (b *Bridge) WithTimerFactory(f tracker.TimerFactory) *Bridge {
	b.timers = f
	return b
}

// Run consumes host events until EOF. Malformed lines are logged and
// skipped; only a read failure ends the session with an error.
func (b *Bridge) Run() error {
	for b.in.Scan() {
		line := b.in.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			b.log.Warn("malformed host event skipped", zap.Error(err))
			continue
		}

		b.dispatch(ev)
	}

	if err := b.in.Err(); err != nil {
		return fmt.Errorf("read host events: %w", err)
	}
	return nil
}

// dispatch routes one host event. All processing is synchronous on the
// Run goroutine; only debounce timers fire elsewhere, and the components
// they touch carry their own locks.
func (b *Bridge) dispatch(ev Event) {
	switch ev.Type {
	case EventLoad:
		b.handleLoad(ev)
	case EventScroll:
		for _, fn := range b.scrollFns {
			fn(ev.Y)
		}
	case EventHashChange:
		for _, fn := range b.hashFns {
			fn(ev.Hash)
		}
	case EventClick:
		for _, fn := range b.clickFns {
			fn(ev.Href, ev.Outbound)
		}
	case EventKey:
		if b.prompts != nil && b.prompts.Open() {
			b.prompts.HandleKey(ev.Key, ev.Shift)
		}
	case EventButton:
		if b.prompts != nil {
			b.prompts.Activate(prompt.Button(ev.Action))
		}
	case EventUnload:
		for _, fn := range b.unloadFns {
			fn()
		}
	case EventDeckReady:
		if len(b.readyFns) == 0 {
			b.log.Warn("deck signal without a presentation context")
			return
		}
		b.h, b.v, b.f = ev.H, ev.V, ev.F
		for _, fn := range b.readyFns {
			fn()
		}
	case EventSlideChange:
		if len(b.slideFns) == 0 && len(b.readyFns) == 0 {
			b.log.Warn("deck signal without a presentation context")
			return
		}
		b.h, b.v, b.f = ev.H, ev.V, ev.F
		for _, fn := range b.slideFns {
			fn(ev.H, ev.V, ev.F)
		}
	default:
		b.log.Warn("unknown host event", zap.String("type", ev.Type))
	}
}

// handleLoad resets the per-load wiring, resolves the document context,
// and runs the resume orchestrator for the new page.
func (b *Bridge) handleLoad(ev Event) {
	b.resetLoad()
	b.active = ev.ActiveElement

	if b.ignore.Match(ev.URL) {
		b.log.Debug("document ignored by configuration", zap.String("path", ev.URL))
		return
	}

	ctx := docctx.Resolve(docctx.Document{
		Path:       ev.URL,
		HasPageNav: ev.PageNav,
		HasSidebar: ev.Sidebar,
		HasDeck:    ev.Deck,
	})

	b.prompts = prompt.NewController(b, b.sess,
		time.Duration(b.cfg.Resume.PromptCooldownMs)*time.Millisecond, b.log)

	orch := resume.New(resume.Config{
		Context:         ctx,
		Store:           b.store,
		Session:         b.sess,
		Prompts:         b.prompts,
		Nav:             b,
		Page:            b,
		ScrollThreshold: float64(b.cfg.Resume.ScrollThreshold),
		Log:             b.log,
	})

	if ctx.IsDeck() {
		slides := tracker.NewSlides(ctx, b.store, b, b, b.log)
		orch.RunDeck(slides, b)
		return
	}

	debounce := time.Duration(b.cfg.Resume.ScrollDebounceMs) * time.Millisecond
	b.tracking = tracker.NewScroll(ctx, b.store, b, debounce, b.log).
		WithTimerFactory(b.timers)
	orch.Run(b.tracking, ev.ScrollY, ev.Hash)
}

// resetLoad drops all wiring from the previous page.
func (b *Bridge) resetLoad() {
	if b.tracking != nil {
		b.tracking.Stop()
		b.tracking = nil
	}
	b.scrollFns = nil
	b.hashFns = nil
	b.clickFns = nil
	b.unloadFns = nil
	b.readyFns = nil
	b.slideFns = nil
	b.prompts = nil
	b.h, b.v, b.f = 0, 0, 0
}

// emit writes one action line to the host.
func (b *Bridge) emit(a Action) {
	b.wmu.Lock()
	defer b.wmu.Unlock()
	if err := b.out.Encode(a); err != nil {
		b.log.Warn("emit action failed", zap.Error(err))
	}
}

// --- tracker.PageEvents ---

func (b *Bridge) OnScroll(fn func(y float64))                { b.scrollFns = append(b.scrollFns, fn) }
func (b *Bridge) OnHashChange(fn func(hash string))          { b.hashFns = append(b.hashFns, fn) }
func (b *Bridge) OnLinkClick(fn func(href string, out bool)) { b.clickFns = append(b.clickFns, fn) }
func (b *Bridge) OnUnload(fn func())                         { b.unloadFns = append(b.unloadFns, fn) }

// --- tracker.Deck ---

func (b *Bridge) OnReady(fn func())                  { b.readyFns = append(b.readyFns, fn) }
func (b *Bridge) OnSlideChange(fn func(h, v, f int)) { b.slideFns = append(b.slideFns, fn) }
func (b *Bridge) CurrentIndices() (int, int, int)    { return b.h, b.v, b.f }
func (b *Bridge) Slide(h, v, f int) {
	b.emit(Action{Type: ActionSlide, H: h, V: v, F: f})
}

// --- prompt.Surface ---

func (b *Bridge) ActiveElement() string { return b.active }

func (b *Bridge) ShowDialog(d prompt.Dialog) {
	b.emit(Action{Type: ActionDialog, Dialog: &d})
}

func (b *Bridge) CloseDialog() {
	b.emit(Action{Type: ActionCloseDialog})
}

func (b *Bridge) FocusButton(btn prompt.Button) {
	b.emit(Action{Type: ActionFocus, Target: string(btn)})
}

func (b *Bridge) RestoreFocus(target string) {
	if target == "" {
		return
	}
	b.emit(Action{Type: ActionFocus, Target: target})
}

// --- resume.Navigator ---

func (b *Bridge) Navigate(url string) {
	b.emit(Action{Type: ActionNavigate, URL: url})
}

func (b *Bridge) Restore(scrollY float64, hash string) {
	b.emit(Action{Type: ActionRestore, ScrollY: scrollY, Hash: hash})
}
