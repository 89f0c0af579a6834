package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/readmark/internal/config"
	"github.com/runnerr0/readmark/internal/position"
)

func TestDecide_NoRecord(t *testing.T) {
	store := newTestStore(t)

	cmd := &DecideCommand{URL: "/doc.html", globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(config.DefaultConfig(), store))
	})

	assert.Contains(t, output, "Action:    none")
}

func TestDecide_DeepScrollPrompts(t *testing.T) {
	store := newTestStore(t)
	store.Save(pageCtx("/doc.html"), position.Fields{ScrollY: 900})

	cmd := &DecideCommand{URL: "/doc.html", globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(config.DefaultConfig(), store))
	})

	assert.Contains(t, output, "Action:    prompt")
	assert.Contains(t, output, "visited this page before")
	assert.Contains(t, output, "900 px")
}

func TestDecide_ShallowScrollSilent(t *testing.T) {
	store := newTestStore(t)
	store.Save(pageCtx("/doc.html"), position.Fields{ScrollY: 40})

	cmd := &DecideCommand{URL: "/doc.html", globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(config.DefaultConfig(), store))
	})

	assert.Contains(t, output, "Action:    silent-restore")
}

func TestDecide_BookCrossChapterNavigates(t *testing.T) {
	store := newTestStore(t)
	// Seed a record keyed to the book root, as a chapter load would write.
	store.Save(bookCtx("/guide/ch2.html"), position.Fields{ScrollY: 700, Hash: "#sec"})

	cmd := &DecideCommand{
		URL:     "/guide/ch1.html",
		PageNav: true,
		Sidebar: true,
		globals: &GlobalFlags{},
		version: "dev",
	}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(config.DefaultConfig(), store))
	})

	assert.Contains(t, output, "Context:   book")
	assert.Contains(t, output, "Action:    prompt")
	assert.Contains(t, output, "different chapter")
	assert.Contains(t, output, "Navigate:  /guide/ch2.html#sec")
}

func TestDecide_InSessionDifferentPageDoesNothing(t *testing.T) {
	store := newTestStore(t)
	store.Save(pageCtx("/doc.html"), position.Fields{ScrollY: 900})

	cmd := &DecideCommand{
		URL:     "/doc.html",
		Session: true,
		globals: &GlobalFlags{},
		version: "dev",
	}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(config.DefaultConfig(), store))
	})

	// Same page in-session restores silently, never prompts.
	assert.Contains(t, output, "Action:    silent-restore")
}

func TestDecide_ForeignRecordIgnored(t *testing.T) {
	store := newTestStore(t)
	store.Save(pageCtx("/other.html"), position.Fields{ScrollY: 900})

	cmd := &DecideCommand{URL: "/doc.html", globals: &GlobalFlags{}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(config.DefaultConfig(), store))
	})

	assert.Contains(t, output, "Action:    none")
}

func TestDecide_JSONOutput(t *testing.T) {
	store := newTestStore(t)
	store.Save(pageCtx("/doc.html"), position.Fields{ScrollY: 900, Hash: "#deep"})

	cmd := &DecideCommand{URL: "/doc.html", globals: &GlobalFlags{JSON: true}, version: "dev"}

	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(config.DefaultConfig(), store))
	})

	var result decideJSON
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, "page", result.Kind)
	assert.Equal(t, "/doc.html", result.TrackingKey)
	assert.Equal(t, "prompt", result.Action)
	assert.Equal(t, 900.0, result.ScrollY)
	assert.Equal(t, "#deep", result.Hash)
}
