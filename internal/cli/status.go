package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/readmark/internal/config"
	"github.com/runnerr0/readmark/internal/position"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version          string `json:"version"`
	Backend          string `json:"backend"`
	StorageFile      string `json:"storage_file"`
	StorageSizeBytes int64  `json:"storage_size_bytes"`
	RecordPresent    bool   `json:"record_present"`
	TrackingKey      string `json:"tracking_key,omitempty"`
	SourceURL        string `json:"source_url,omitempty"`
	CapturedAt       string `json:"captured_at,omitempty"`
	IgnorePatterns   int    `json:"ignore_patterns"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	kv, closer, err := openKV(cfg)
	if err != nil {
		return err
	}
	defer closer()

	store := position.NewStore(kv, nil)
	return c.executeWithStore(cfg, store)
}

// executeWithStore runs status against a provided store (for testing).
func (c *StatusCommand) executeWithStore(cfg *config.Config, store *position.Store) error {
	rec, err := store.Peek()
	if err != nil {
		return fmt.Errorf("read stored position: %w", err)
	}

	path := storageFilePath(cfg)
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}

	if c.globals != nil && c.globals.JSON {
		out := statusJSON{
			Version:          c.version,
			Backend:          cfg.Storage.Backend,
			StorageFile:      path,
			StorageSizeBytes: size,
			RecordPresent:    rec != nil,
			IgnorePatterns:   len(cfg.Ignore.PathPatterns),
		}
		if rec != nil {
			out.TrackingKey = rec.TrackingKey
			out.SourceURL = rec.SourceURL
			out.CapturedAt = rec.Timestamp.UTC().Format(time.RFC3339)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println("readmark Status")
	fmt.Println("===============")
	fmt.Printf("Version:     %s\n", c.version)
	fmt.Printf("Backend:     %s\n", cfg.Storage.Backend)
	fmt.Printf("Storage:     %s (%s)\n", path, formatBytes(size))
	fmt.Printf("Ignore:      %d pattern(s)\n", len(cfg.Ignore.PathPatterns))
	fmt.Println()

	if rec == nil {
		fmt.Println("Position:    none stored")
		return nil
	}

	fmt.Println("Position:")
	fmt.Printf("  Key:       %s\n", rec.TrackingKey)
	fmt.Printf("  Source:    %s\n", rec.SourceURL)
	fmt.Printf("  Captured:  %s\n", formatAge(rec.Timestamp))
	return nil
}
