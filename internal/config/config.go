package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/fabric/readmark/config.yaml"

// Config holds all readmark configuration.
type Config struct {
	Resume  ResumeConfig  `yaml:"resume"`
	Ignore  IgnoreConfig  `yaml:"ignore"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// ResumeConfig holds the timing and threshold knobs of the resume engine.
// Defaults mirror the constants the engine was designed around; changing
// them changes prompt frequency and save granularity, nothing else.
type ResumeConfig struct {
	ScrollDebounceMs int `yaml:"scroll_debounce_ms"`
	PromptCooldownMs int `yaml:"prompt_cooldown_ms"`
	ScrollThreshold  int `yaml:"scroll_threshold_px"`
}

// IgnoreConfig lists documents that must never be remembered. A path
// matching any pattern is treated as having no tracking context: nothing
// is read, nothing is written.
type IgnoreConfig struct {
	PathPatterns []string `yaml:"path_patterns"`
}

// StorageConfig selects and locates the durable backend.
type StorageConfig struct {
	// Backend is "sqlite" or "file".
	Backend    string `yaml:"backend"`
	Path       string `yaml:"path"`
	SQLiteFile string `yaml:"sqlite_file"`
	StateFile  string `yaml:"state_file"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := expandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}

// StoragePath returns the expanded storage directory.
func (c *Config) StoragePath() (string, error) {
	return expandPath(c.Storage.Path)
}
