package cli

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/runnerr0/readmark/internal/config"
	"github.com/runnerr0/readmark/internal/storage"
)

// loadConfig resolves the effective configuration: an explicit --config
// path is loaded as-is, otherwise the default path is loaded or created.
func loadConfig(globals *GlobalFlags) (*config.Config, error) {
	if globals != nil && globals.Config != "" {
		return config.Load(globals.Config)
	}
	return config.LoadOrCreate()
}

// openKV opens the configured durable backend, running migrations for
// SQLite. The returned closer releases backend resources.
func openKV(cfg *config.Config) (storage.KV, func(), error) {
	dir, err := cfg.StoragePath()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create storage directory: %w", err)
	}

	if cfg.Storage.Backend == "file" {
		kv := storage.NewFileKV(filepath.Join(dir, cfg.Storage.StateFile))
		return kv, func() {}, nil
	}

	dbPath := filepath.Join(dir, cfg.Storage.SQLiteFile)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := storage.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	kv, err := storage.NewSQLiteKV(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	closer := func() {
		kv.Close()
		db.Close()
	}
	return kv, closer, nil
}

// storageFilePath returns the path of the configured backend's data file.
func storageFilePath(cfg *config.Config) string {
	dir, err := cfg.StoragePath()
	if err != nil {
		return ""
	}
	if cfg.Storage.Backend == "file" {
		return filepath.Join(dir, cfg.Storage.StateFile)
	}
	return filepath.Join(dir, cfg.Storage.SQLiteFile)
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatAge formats how long ago a timestamp was, in coarse units.
func formatAge(ts time.Time) string {
	if ts.IsZero() {
		return "unknown"
	}
	d := time.Since(ts)
	switch {
	case d < time.Minute:
		return "moments ago"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	}
}
