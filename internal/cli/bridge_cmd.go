package cli

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/runnerr0/readmark/internal/bridge"
	"github.com/runnerr0/readmark/internal/logging"
	"github.com/runnerr0/readmark/internal/position"
)

// Execute implements the go-flags Commander interface for BridgeCommand.
// It blocks reading host events from stdin until the host closes the pipe.
func (c *BridgeCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if c.LogLevel != "" {
		level = c.LogLevel
	}
	if c.globals != nil && c.globals.Verbose {
		level = "debug"
	}

	log, err := logging.New(level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	kv, closer, err := openKV(cfg)
	if err != nil {
		return err
	}
	defer closer()

	store := position.NewStore(kv, log)
	b := bridge.New(os.Stdin, os.Stdout, store, cfg, log)

	log.Info("bridge started",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("version", c.version))

	return b.Run()
}
