package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/runnerr0/readmark/internal/config"
	"github.com/runnerr0/readmark/internal/docctx"
	"github.com/runnerr0/readmark/internal/position"
	"github.com/runnerr0/readmark/internal/resume"
)

// decideJSON is the JSON output structure for the decide command.
type decideJSON struct {
	Kind        string  `json:"kind"`
	TrackingKey string  `json:"tracking_key"`
	Action      string  `json:"action"`
	Message     string  `json:"message,omitempty"`
	NavigateTo  string  `json:"navigate_to,omitempty"`
	ScrollY     float64 `json:"scroll_y,omitempty"`
	Hash        string  `json:"hash,omitempty"`
}

// Execute implements the go-flags Commander interface for DecideCommand.
func (c *DecideCommand) Execute(args []string) error {
	if c.URL == "" {
		return fmt.Errorf("--url is required")
	}

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

// executeWithStore runs decide against a provided store (for testing).
func (c *DecideCommand) executeWithStore(cfg *config.Config, store *position.Store) error {
	ctx := docctx.Resolve(docctx.Document{
		Path:       c.URL,
		HasPageNav: c.PageNav,
		HasSidebar: c.Sidebar,
		HasDeck:    c.Deck,
	})

	rec := store.Load(ctx)
	decision := resume.Decide(rec, c.Session, ctx, float64(cfg.Resume.ScrollThreshold))

	if c.globals != nil && c.globals.JSON {
		out := decideJSON{
			Kind:        ctx.Kind.String(),
			TrackingKey: ctx.TrackingKey,
			Action:      decision.Action.String(),
			Message:     decision.Message,
			NavigateTo:  decision.NavigateTo,
			ScrollY:     decision.ScrollY,
			Hash:        decision.Hash,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("Context:   %s (key %s)\n", ctx.Kind, ctx.TrackingKey)
	fmt.Printf("Action:    %s\n", decision.Action)
	if decision.Message != "" {
		fmt.Printf("Message:   %s\n", decision.Message)
	}
	if decision.NavigateTo != "" {
		fmt.Printf("Navigate:  %s\n", decision.NavigateTo)
	} else if decision.Action != resume.ActionNone {
		fmt.Printf("Scroll:    %.0f px\n", decision.ScrollY)
		if decision.Hash != "" {
			fmt.Printf("Hash:      %s\n", decision.Hash)
		}
	}
	return nil
}
