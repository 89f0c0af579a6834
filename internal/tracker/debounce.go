package tracker

import (
	"sync"
	"time"
)

// DefaultScrollDebounce is the quiet window after the last scroll before a
// save lands.
const DefaultScrollDebounce = 500 * time.Millisecond

// debouncer coalesces a burst of triggers into one callback: each trigger
// cancels the pending deadline and schedules a new one, so only the last
// trigger in a quiet window fires.
type debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	newTimer TimerFactory
	pending  Timer
}

func newDebouncer(delay time.Duration, newTimer TimerFactory) *debouncer {
	if delay <= 0 {
		delay = DefaultScrollDebounce
	}
	if newTimer == nil {
		newTimer = AfterFunc
	}
	return &debouncer{delay: delay, newTimer: newTimer}
}

// Trigger schedules fn after the quiet window, cancelling any pending
// schedule first.
func (d *debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
	}
	d.pending = d.newTimer(d.delay, fn)
}

// Stop cancels any pending callback.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
