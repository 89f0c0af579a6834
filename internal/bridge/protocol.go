package bridge

import "github.com/runnerr0/readmark/internal/prompt"

// Event is one host-to-engine message, a single JSON object per line.
// Type selects which fields are meaningful.
type Event struct {
	Type string `json:"type"`

	// load
	URL           string  `json:"url,omitempty"`
	ScrollY       float64 `json:"scrollY,omitempty"`
	Hash          string  `json:"hash,omitempty"`
	PageNav       bool    `json:"pageNav,omitempty"`
	Sidebar       bool    `json:"sidebar,omitempty"`
	Deck          bool    `json:"deck,omitempty"`
	ActiveElement string  `json:"activeElement,omitempty"`

	// scroll
	Y float64 `json:"y,omitempty"`

	// click
	Href     string `json:"href,omitempty"`
	Outbound bool   `json:"outbound,omitempty"`

	// key
	Key   string `json:"key,omitempty"`
	Shift bool   `json:"shift,omitempty"`

	// button
	Action string `json:"action,omitempty"`

	// deckready / slidechange
	H int `json:"h,omitempty"`
	V int `json:"v,omitempty"`
	F int `json:"f,omitempty"`
}

// Host event types.
const (
	EventLoad        = "load"
	EventScroll      = "scroll"
	EventHashChange  = "hashchange"
	EventClick       = "click"
	EventKey         = "key"
	EventButton      = "button"
	EventUnload      = "unload"
	EventDeckReady   = "deckready"
	EventSlideChange = "slidechange"
)

// Action is one engine-to-host message. Type selects which fields are
// meaningful; the host executes it against the live page.
type Action struct {
	Type string `json:"type"`

	// restore
	ScrollY float64 `json:"scrollY,omitempty"`
	Hash    string  `json:"hash,omitempty"`

	// navigate
	URL string `json:"url,omitempty"`

	// dialog
	Dialog *prompt.Dialog `json:"dialog,omitempty"`

	// focus
	Target string `json:"target,omitempty"`

	// slide
	H int `json:"h,omitempty"`
	V int `json:"v,omitempty"`
	F int `json:"f,omitempty"`
}

// Engine action types.
const (
	ActionRestore     = "restore"
	ActionNavigate    = "navigate"
	ActionDialog      = "dialog"
	ActionCloseDialog = "closedialog"
	ActionFocus       = "focus"
	ActionSlide       = "slide"
)
