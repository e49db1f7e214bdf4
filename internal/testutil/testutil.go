// Package testutil provides shared test helpers for setting up storage roots and stores.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/starford/textpad/internal/document"
	"github.com/starford/textpad/internal/storage"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestRoot creates a temporary storage root with a storage.FS provider.
func TestRoot(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return fs.Root(), fs
}

// TestStore creates a document store over a temporary storage root.
func TestStore(t *testing.T) (string, *document.Store) {
	t.Helper()
	root, fs := TestRoot(t)
	return root, document.NewStore(fs, DiscardLogger())
}
