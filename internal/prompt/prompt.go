package prompt

import (
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/readmark/internal/session"
)

// DefaultCooldown is the minimum gap between two prompt displays.
const DefaultCooldown = 5 * time.Second

// Button identifies one of the two dialog actions.
type Button string

const (
	// ButtonAccept is the "Yes" action.
	ButtonAccept Button = "accept"
	// ButtonDecline is the "No" action. It is the safer choice and
	// receives default focus.
	ButtonDecline Button = "decline"
)

// Dialog is the complete description of the confirmation dialog, including
// its accessibility contract. The host renders it verbatim: role and live
// region as given, buttons labelled with both visible text and accessible
// names, focus placed on the default button.
type Dialog struct {
	Role         string `json:"role"`
	Modal        bool   `json:"modal"`
	Live         string `json:"live"`
	LabelledBy   string `json:"labelledBy"`
	DescribedBy  string `json:"describedBy"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	AcceptLabel  string `json:"acceptLabel"`
	AcceptAria   string `json:"acceptAria"`
	DeclineLabel string `json:"declineLabel"`
	DeclineAria  string `json:"declineAria"`
	DefaultFocus Button `json:"defaultFocus"`
}

// Surface is the host capability the controller renders through. The host
// owns the actual widgets; the controller owns every decision about what
// is shown, which button is focused, and when it all comes down.
type Surface interface {
	// ActiveElement identifies the currently focused element so focus
	// can be returned after teardown.
	ActiveElement() string
	// ShowDialog renders the dialog.
	ShowDialog(d Dialog)
	// CloseDialog removes the dialog.
	CloseDialog()
	// FocusButton moves focus to one of the two dialog buttons.
	FocusButton(b Button)
	// RestoreFocus returns focus to the element that held it before the
	// dialog opened.
	RestoreFocus(target string)
}

// Controller manages the single confirmation dialog.
//
// A Show call within the cooldown window of the previous display is
// dropped silently: no dialog, no callback. While a dialog is open, focus
// cycles strictly between the two buttons, Escape declines, and exactly
// one of the two callbacks fires, exactly once, before teardown.
type Controller struct {
	surface  Surface
	sess     *session.Tracker
	cooldown time.Duration
	log      *zap.Logger
	now      func() time.Time

	open      bool
	responded bool
	focused   Button
	prevFocus string
	onAccept  func()
	onDecline func()
}

// NewController creates a Controller rendering through surface. The
// session tracker carries the cooldown timestamp so that bursts of
// triggers across components share one gate.
func NewController(surface Surface, sess *session.Tracker, cooldown time.Duration, log *zap.Logger) *Controller {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		surface:  surface,
		sess:     sess,
		cooldown: cooldown,
		log:      log,
		now:      time.Now,
	}
}

// WithClock overrides the controller's time source. Test hook.
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// Open reports whether a dialog is currently displayed. The host routes
// keydown events to HandleKey only while this is true.
func (c *Controller) Open() bool { return c.open }

// Show displays the confirmation dialog with the given message. If a
// prompt was shown within the cooldown window, or one is already open,
// the call is dropped and neither callback will ever fire.
func (c *Controller) Show(message string, onAccept, onDecline func()) {
	if c.open {
		c.log.Debug("prompt dropped: dialog already open")
		return
	}

	now := c.now()
	if last, ok := c.sess.LastPrompt(); ok && now.Sub(last) < c.cooldown {
		c.log.Debug("prompt dropped: within cooldown",
			zap.Duration("since_last", now.Sub(last)),
			zap.Duration("cooldown", c.cooldown))
		return
	}
	c.sess.MarkPrompt(now)

	c.prevFocus = c.surface.ActiveElement()
	c.open = true
	c.responded = false
	c.onAccept = onAccept
	c.onDecline = onDecline

	c.surface.ShowDialog(Dialog{
		Role:         "alertdialog",
		Modal:        true,
		Live:         "assertive",
		LabelledBy:   "readmark-dialog-title",
		DescribedBy:  "readmark-dialog-message",
		Title:        "Welcome back",
		Message:      message,
		AcceptLabel:  "Yes",
		AcceptAria:   "Resume saved reading position",
		DeclineLabel: "No",
		DeclineAria:  "Dismiss and forget saved position",
		DefaultFocus: ButtonDecline,
	})

	// "No" is the safer action; it gets initial focus.
	c.focused = ButtonDecline
	c.surface.FocusButton(ButtonDecline)
}

// HandleKey processes a keydown while the dialog is open. Escape declines;
// Tab moves focus to the other button, wrapping in both directions, so
// focus never leaves the two controls. Enter activates the focused button.
func (c *Controller) HandleKey(key string, shift bool) {
	if !c.open {
		return
	}

	switch key {
	case "Escape":
		c.Activate(ButtonDecline)
	case "Tab":
		// With exactly two stops, forward and backward cycling both
		// land on the other button.
		_ = shift
		if c.focused == ButtonDecline {
			c.focused = ButtonAccept
		} else {
			c.focused = ButtonDecline
		}
		c.surface.FocusButton(c.focused)
	case "Enter":
		c.Activate(c.focused)
	}
}

// Activate fires the callback for the given button and tears the dialog
// down. The host calls this on button click; HandleKey calls it for
// keyboard activation. A second activation is ignored.
func (c *Controller) Activate(b Button) {
	if !c.open || c.responded {
		return
	}
	c.responded = true

	cb := c.onDecline
	if b == ButtonAccept {
		cb = c.onAccept
	}

	c.teardown()

	if cb != nil {
		cb()
	}
}

// teardown removes the dialog and returns focus to where it was.
func (c *Controller) teardown() {
	c.surface.CloseDialog()
	c.surface.RestoreFocus(c.prevFocus)
	c.open = false
	c.onAccept = nil
	c.onDecline = nil
}
