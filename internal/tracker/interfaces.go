package tracker

import "time"

// PageEvents is the host capability delivering page-level signals. A
// subscriber registers a callback per signal; the host may deliver to any
// number of subscribers in registration order.
type PageEvents interface {
	// OnScroll delivers the vertical scroll offset on every scroll.
	OnScroll(fn func(y float64))
	// OnHashChange delivers the new fragment when the in-page anchor
	// changes.
	OnHashChange(fn func(hash string))
	// OnLinkClick fires when an anchor is activated. outbound is true
	// when the link leaves the current page.
	OnLinkClick(fn func(href string, outbound bool))
	// OnUnload fires once when the page is about to go away.
	OnUnload(fn func())
}

// Deck is the presentation framework capability: a ready signal, a
// slide-change signal, a query for the current position, and a command to
// jump. The framework's own lifecycle is consumed, never reimplemented.
type Deck interface {
	OnReady(fn func())
	OnSlideChange(fn func(h, v, f int))
	CurrentIndices() (h, v, f int)
	Slide(h, v, f int)
}

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the callback was still
	// pending.
	Stop() bool
}

// TimerFactory schedules fn to run after d. The default factory wraps
// time.AfterFunc; tests inject manual timers.
type TimerFactory func(d time.Duration, fn func()) Timer

// AfterFunc is the default TimerFactory.
func AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
