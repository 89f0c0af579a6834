package cli

import (
	"fmt"

	"github.com/runnerr0/readmark/internal/position"
)

// Execute implements the go-flags Commander interface for ClearCommand.
func (c *ClearCommand) Execute(args []string) error {
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
	return c.executeWithStore(store)
}

// executeWithStore runs clear against a provided store (for testing).
func (c *ClearCommand) executeWithStore(store *position.Store) error {
	rec, err := store.Peek()
	if err != nil {
		return fmt.Errorf("read stored position: %w", err)
	}

	store.Clear()

	if rec == nil {
		fmt.Println("Nothing stored.")
		return nil
	}
	fmt.Printf("Cleared position for %s\n", rec.SourceURL)
	return nil
}
