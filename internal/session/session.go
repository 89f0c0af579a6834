package session

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/runnerr0/readmark/internal/storage"
)

// Session-scoped storage keys. Both vanish with the session; neither is
// ever written to durable storage.
const (
	keyAnswered   = "readmark.session.answered"
	keyPromptLast = "readmark.session.promptLast"
)

// Tracker records per-session state: whether the visitor has already been
// asked (or a restore decision was finalized) this session, and when a
// prompt was last displayed. The answered flag is a one-way latch; nothing
// in this package clears it.
type Tracker struct {
	kv  storage.KV
	id  uuid.UUID
	log *zap.Logger
}

// NewTracker creates a Tracker over a session-scoped KV and mints a session
// id for log correlation.
func NewTracker(kv storage.KV, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	id := uuid.New()
	log.Debug("session started", zap.String("session_id", id.String()))
	return &Tracker{kv: kv, id: id, log: log}
}

// ID returns the session id.
func (t *Tracker) ID() uuid.UUID { return t.id }

// Active reports whether the visitor has already responded this session.
// Storage failures read as "not yet answered".
func (t *Tracker) Active() bool {
	v, ok, err := t.kv.Get(keyAnswered)
	if err != nil {
		t.log.Warn("session flag read failed", zap.Error(err))
		return false
	}
	return ok && v == "1"
}

// MarkActive latches the answered flag for the remainder of the session.
func (t *Tracker) MarkActive() {
	if err := t.kv.SetAll(map[string]string{keyAnswered: "1"}); err != nil {
		t.log.Warn("session flag write failed", zap.Error(err))
	}
}

// LastPrompt returns the time a prompt was last displayed this session,
// and whether one has been displayed at all.
func (t *Tracker) LastPrompt() (time.Time, bool) {
	v, ok, err := t.kv.Get(keyPromptLast)
	if err != nil {
		t.log.Warn("prompt timestamp read failed", zap.Error(err))
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// MarkPrompt records that a prompt was displayed at the given time.
func (t *Tracker) MarkPrompt(at time.Time) {
	err := t.kv.SetAll(map[string]string{
		keyPromptLast: strconv.FormatInt(at.UnixMilli(), 10),
	})
	if err != nil {
		t.log.Warn("prompt timestamp write failed", zap.Error(err))
	}
}
