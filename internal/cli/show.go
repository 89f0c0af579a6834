package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/readmark/internal/position"
)

// showJSON is the JSON output structure for the show command.
type showJSON struct {
	TrackingKey string                 `json:"trackingKey"`
	SourceURL   string                 `json:"sourceUrl"`
	ScrollY     float64                `json:"scrollY"`
	Hash        string                 `json:"hash,omitempty"`
	Slide       *position.SlideIndices `json:"slideIndices,omitempty"`
	CapturedAt  string                 `json:"captured_at"`
}

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
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

// executeWithStore runs show against a provided store (for testing).
func (c *ShowCommand) executeWithStore(store *position.Store) error {
	rec, err := store.Peek()
	if err != nil {
		return fmt.Errorf("read stored position: %w", err)
	}

	if rec == nil {
		if c.globals != nil && c.globals.JSON {
			fmt.Println("null")
			return nil
		}
		fmt.Println("No position stored.")
		return nil
	}

	if c.globals != nil && c.globals.JSON {
		out := showJSON{
			TrackingKey: rec.TrackingKey,
			SourceURL:   rec.SourceURL,
			ScrollY:     rec.ScrollY,
			Hash:        rec.Hash,
			Slide:       rec.Slide,
			CapturedAt:  rec.Timestamp.UTC().Format(time.RFC3339),
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Key:       %s\n", rec.TrackingKey)
	fmt.Printf("Source:    %s\n", rec.SourceURL)
	if rec.Slide != nil {
		fmt.Printf("Slide:     h=%d v=%d f=%d\n", rec.Slide.H, rec.Slide.V, rec.Slide.F)
	} else {
		fmt.Printf("Scroll:    %.0f px\n", rec.ScrollY)
		if rec.Hash != "" {
			fmt.Printf("Hash:      %s\n", rec.Hash)
		}
	}
	fmt.Printf("Captured:  %s (%s)\n", rec.Timestamp.Local().Format("2006-01-02 15:04"), formatAge(rec.Timestamp))
	return nil
}
