package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := RunWithArgs("0.1.0-test", []string{"--version"})

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	assert.NoError(t, err)
	assert.Contains(t, output, "readmark 0.1.0-test")
}

func TestVersionOutputFormat(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	_ = RunWithArgs("1.2.3", []string{"--version"})

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := strings.TrimSpace(buf.String())

	assert.Equal(t, "readmark 1.2.3", output)
}

func TestAllSubcommandsExist(t *testing.T) {
	expected := []string{"bridge", "status", "show", "clear", "decide"}
	parser, _, _ := buildParser("test")

	for _, name := range expected {
		cmd := parser.Find(name)
		assert.NotNil(t, cmd, "subcommand %q should exist", name)
	}
}

func TestDecideRequiresURL(t *testing.T) {
	err := RunWithArgs("test", []string{"decide"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--url is required")
}

func TestDecideContextFlags(t *testing.T) {
	p, _, c := buildParser("test")
	// Omitting --url makes execution fail fast; the flags are still parsed.
	_, err := p.ParseArgs([]string{"decide", "--page-nav", "--sidebar", "--in-session"})
	require.Error(t, err)
	assert.True(t, c.Decide.PageNav)
	assert.True(t, c.Decide.Sidebar)
	assert.False(t, c.Decide.Deck)
	assert.True(t, c.Decide.Session)
}

func TestGlobalFlagsJSON(t *testing.T) {
	parser, globals, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"--json", "decide"})
	require.Error(t, err)
	assert.True(t, globals.JSON)
}

func TestGlobalFlagsConfig(t *testing.T) {
	parser, globals, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"--config", "/tmp/test.yaml", "decide"})
	require.Error(t, err)
	assert.Equal(t, "/tmp/test.yaml", globals.Config)
}

func TestUnknownSubcommandFails(t *testing.T) {
	parser, _, _ := buildParser("test")
	_, err := parser.ParseArgs([]string{"nonexistent"})
	require.Error(t, err)
}

func TestHelpFlagDoesNotError(t *testing.T) {
	err := RunWithArgs("test", []string{"--help"})
	assert.NoError(t, err)
}
