package position

import (
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/runnerr0/readmark/internal/docctx"
	"github.com/runnerr0/readmark/internal/storage"
)

// Storage keys for the record and its companion timestamp. The two entries
// are always written and removed together.
const (
	KeyRecord    = "readmark.position"
	KeyTimestamp = "readmark.position.ts"
)

// Store persists the single position record through a KV capability.
//
// Every operation degrades to a no-op when storage fails: a profile with
// storage disabled simply never remembers positions. Nothing here may
// surface an error to the page flow.
type Store struct {
	kv  storage.KV
	log *zap.Logger
	now func() time.Time
}

// NewStore creates a Store over kv. A nil logger is replaced with a no-op
// logger.
func NewStore(kv storage.KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log, now: time.Now}
}

// WithClock overrides the store's time source. Test hook.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Fields are the caller-supplied parts of a save. Omitted fields keep
// their defaults (zero scroll, empty hash, no slide indices), so a partial
// save overwrites rather than merges with the previous record.
type Fields struct {
	ScrollY float64
	Hash    string
	Slide   *SlideIndices
}

// Save writes a record for the given context, stamping the tracking key,
// source path, and capture time. Record and timestamp land atomically.
func (s *Store) Save(ctx docctx.Context, f Fields) {
	rec := Record{
		TrackingKey: ctx.TrackingKey,
		SourceURL:   ctx.Path,
		ScrollY:     f.ScrollY,
		Hash:        f.Hash,
		Slide:       f.Slide,
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		s.log.Warn("position save skipped", zap.Error(err))
		return
	}

	ts := s.now().UnixMilli()
	err = s.kv.SetAll(map[string]string{
		KeyRecord:    string(payload),
		KeyTimestamp: strconv.FormatInt(ts, 10),
	})
	if err != nil {
		s.log.Warn("position save failed", zap.Error(err))
		return
	}

	s.log.Debug("position saved",
		zap.String("key", rec.TrackingKey),
		zap.String("source", rec.SourceURL),
		zap.Float64("scrollY", rec.ScrollY))
}

// Load returns the stored record only if one exists and belongs to the
// given context's tracking key. A record for a different document, a
// missing record, and a storage failure all yield nil.
func (s *Store) Load(ctx docctx.Context) *Record {
	rec, err := s.Peek()
	if err != nil {
		s.log.Warn("position load failed", zap.Error(err))
		return nil
	}
	if rec == nil {
		return nil
	}

	if rec.TrackingKey != ctx.TrackingKey {
		s.log.Debug("stored position belongs to a different document",
			zap.String("stored", rec.TrackingKey),
			zap.String("current", ctx.TrackingKey))
		return nil
	}

	return rec
}

// Peek returns the stored record without context filtering, or nil when
// none exists. Used by the CLI inspection commands, which want storage
// errors surfaced rather than swallowed.
func (s *Store) Peek() (*Record, error) {
	payload, ok, err := s.kv.Get(KeyRecord)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var rec Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, err
	}

	if tsStr, ok, err := s.kv.Get(KeyTimestamp); err == nil && ok {
		if ms, err := strconv.ParseInt(tsStr, 10, 64); err == nil {
			rec.Timestamp = time.UnixMilli(ms)
		}
	}

	return &rec, nil
}

// Clear removes the record and its timestamp unconditionally. Safe to call
// when nothing is stored.
func (s *Store) Clear() {
	if err := s.kv.Remove(KeyRecord, KeyTimestamp); err != nil {
		s.log.Warn("position clear failed", zap.Error(err))
	}
}
