package resume

import (
	"github.com/runnerr0/readmark/internal/docctx"
	"github.com/runnerr0/readmark/internal/position"
)

// DefaultScrollThreshold is the scroll depth below which a standalone page
// is restored silently instead of prompting.
const DefaultScrollThreshold = 100.0

// State is the orchestrator's position in the per-load lifecycle.
type State int

const (
	StateIdle State = iota
	StateEvaluated
	StatePrompted
	StateSilentRestore
	StateNoOp
	StateResumed
	StateDeclined
)

// String returns the state name used in logs and the decide command.
func (s State) String() string {
	switch s {
	case StateEvaluated:
		return "evaluated"
	case StatePrompted:
		return "prompted"
	case StateSilentRestore:
		return "silent-restore"
	case StateNoOp:
		return "noop"
	case StateResumed:
		return "resumed"
	case StateDeclined:
		return "declined"
	default:
		return "idle"
	}
}

// Action is what the orchestrator does after evaluating a load.
type Action int

const (
	// ActionNone does nothing.
	ActionNone Action = iota
	// ActionSilentRestore applies the remembered position without asking.
	ActionSilentRestore
	// ActionPrompt asks before restoring.
	ActionPrompt
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionSilentRestore:
		return "silent-restore"
	case ActionPrompt:
		return "prompt"
	default:
		return "none"
	}
}

// Prompt messages for the two page/book cases. The deck message is built
// separately because it carries elapsed time.
const (
	msgDifferentChapter = "You were reading a different chapter of this book. Continue where you left off?"
	msgSamePage         = "You've visited this page before. Return to where you left off?"
)

// Decision is the evaluated outcome for one load: the action to take, the
// prompt message when asking, and the position to apply on restore. For a
// cross-chapter resume NavigateTo carries the target URL; otherwise the
// scroll offset and hash apply to the current page.
type Decision struct {
	Action     Action
	Message    string
	NavigateTo string
	ScrollY    float64
	Hash       string
}

// Decide is the resume decision table as a pure function of its inputs:
// the stored record (already key-filtered, nil when absent or foreign),
// the session flag, and the resolved context. threshold <= 0 uses the
// default scroll threshold.
//
//	session  stored  book  condition              action
//	false    yes     yes   different page      -> prompt (chapter), accept navigates
//	false    yes     yes   same page           -> silent restore
//	false    yes     no    deep scroll or hash -> prompt (page), accept restores here
//	false    yes     no    shallow, no hash    -> silent restore
//	true     yes     -     same page           -> silent restore, never prompt
//	true     yes     -     different page      -> none
//	-        absent  -     -                   -> none
func Decide(stored *position.Record, sessionActive bool, ctx docctx.Context, threshold float64) Decision {
	if stored == nil {
		return Decision{Action: ActionNone}
	}
	if threshold <= 0 {
		threshold = DefaultScrollThreshold
	}

	differentPage := stored.SourceURL != ctx.Path

	if sessionActive {
		// Already answered this session: restore quietly on the same
		// page, stay out of the way anywhere else.
		if differentPage {
			return Decision{Action: ActionNone}
		}
		return Decision{Action: ActionSilentRestore, ScrollY: stored.ScrollY, Hash: stored.Hash}
	}

	if ctx.IsBook() {
		if differentPage {
			return Decision{
				Action:     ActionPrompt,
				Message:    msgDifferentChapter,
				NavigateTo: stored.SourceURL + stored.Hash,
			}
		}
		return Decision{Action: ActionSilentRestore, ScrollY: stored.ScrollY, Hash: stored.Hash}
	}

	if stored.ScrollY > threshold || stored.Hash != "" {
		return Decision{
			Action:  ActionPrompt,
			Message: msgSamePage,
			ScrollY: stored.ScrollY,
			Hash:    stored.Hash,
		}
	}
	return Decision{Action: ActionSilentRestore, ScrollY: stored.ScrollY, Hash: stored.Hash}
}
