package storage

// KV is the narrow storage capability the rest of the engine sees. Durable
// and session-scoped stores both satisfy it; decision logic never touches a
// concrete backend.
//
// SetAll writes every entry or none: a reader must never observe a partial
// batch. The position store depends on this to keep the record and its
// timestamp co-located.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	// SetAll atomically writes all entries.
	SetAll(entries map[string]string) error
	// Remove deletes the given keys. Missing keys are not an error.
	Remove(keys ...string) error
}
