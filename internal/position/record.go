package position

import "time"

// SlideIndices is a position within a slide deck: horizontal slide,
// vertical slide, and fragment.
type SlideIndices struct {
	H int `json:"h"`
	V int `json:"v"`
	F int `json:"f"`
}

// Record is the single durable unit of remembered state. Exactly one
// record exists in storage at a time; the tracking key says which document
// it belongs to and must be checked against the live context before the
// record is acted on.
type Record struct {
	// TrackingKey is the book root or exact page path the record is
	// scoped to.
	TrackingKey string `json:"trackingKey"`
	// SourceURL is the exact page path the record was captured on. For
	// books this can differ from TrackingKey: every chapter shares the
	// key, but SourceURL names the chapter.
	SourceURL string `json:"sourceUrl"`
	// ScrollY is the vertical scroll offset in pixels.
	ScrollY float64 `json:"scrollY"`
	// Hash is the in-page anchor fragment, possibly empty.
	Hash string `json:"hash"`
	// Slide is the deck position, absent for non-deck documents.
	Slide *SlideIndices `json:"slideIndices,omitempty"`

	// Timestamp is the capture time. It is persisted as a separate
	// entry beside the record, not inside the JSON payload.
	Timestamp time.Time `json:"-"`
}

// Age returns how long ago the record was captured.
func (r *Record) Age(now time.Time) time.Duration {
	return now.Sub(r.Timestamp)
}
