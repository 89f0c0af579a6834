package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/renameio/v2"
)

// FileKV implements KV as a single JSON snapshot file. Every write rewrites
// the whole snapshot through an atomic rename, so the record and its
// timestamp can never be observed half-written, even across a crash.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV returns a FileKV storing its snapshot at path. The file is
// created on first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// load reads the current snapshot. A missing file is an empty snapshot.
func (f *FileKV) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	entries := map[string]string{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return entries, nil
}

// flush writes the snapshot atomically: temp file, fsync, rename.
func (f *FileKV) flush(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := renameio.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Get returns the value for key and whether it was present.
func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

// SetAll merges all entries into the snapshot and rewrites it atomically.
func (f *FileKV) SetAll(updates map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	for k, v := range updates {
		entries[k] = v
	}
	return f.flush(entries)
}

// Remove deletes the given keys and rewrites the snapshot.
func (f *FileKV) Remove(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := entries[k]; ok {
			delete(entries, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.flush(entries)
}
