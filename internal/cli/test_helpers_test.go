package cli

import (
	"bytes"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/runnerr0/readmark/internal/docctx"
	"github.com/runnerr0/readmark/internal/position"
	"github.com/runnerr0/readmark/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// newTestStore returns an in-memory position store with a fixed clock.
func newTestStore(t *testing.T) *position.Store {
	t.Helper()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return position.NewStore(storage.NewMemoryKV(), nil).WithClock(func() time.Time { return now })
}

// pageCtx is a standalone-page context for seeding test records.
func pageCtx(path string) docctx.Context {
	return docctx.Context{Kind: docctx.KindPage, Path: path, TrackingKey: path}
}

// bookCtx is a book-chapter context for seeding test records.
func bookCtx(path string) docctx.Context {
	return docctx.Resolve(docctx.Document{Path: path, HasPageNav: true, HasSidebar: true})
}
