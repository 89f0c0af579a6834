package storage

import "sync"

// MemoryKV is an in-process KV. It backs the session scope (entries vanish
// with the process, like tab-lifetime storage) and serves as the test fake
// for durable stores.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryKV returns an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]string)}
}

// Get returns the value for key and whether it was present.
func (m *MemoryKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

// SetAll atomically writes all entries.
func (m *MemoryKV) SetAll(entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

// Remove deletes the given keys.
func (m *MemoryKV) Remove(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
	}
	return nil
}

// Len reports the number of stored entries. Test helper.
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
