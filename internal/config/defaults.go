package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Resume: ResumeConfig{
			ScrollDebounceMs: 500,
			PromptCooldownMs: 5000,
			ScrollThreshold:  100,
		},
		Ignore: IgnoreConfig{
			PathPatterns: []string{},
		},
		Storage: StorageConfig{
			Backend:    "sqlite",
			Path:       "~/.config/fabric/readmark",
			SQLiteFile: "readmark.db",
			StateFile:  "readmark.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
