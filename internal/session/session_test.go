package session_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/textpad/internal/document"
	"github.com/starford/textpad/internal/session"
	"github.com/starford/textpad/internal/testutil"
)

func newHandler(t *testing.T) (*session.Handler, string, *bytes.Buffer) {
	t.Helper()
	root, fs := testutil.TestRoot(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := document.NewStore(fs, logger)
	return session.NewHandler(store, logger), root, &logs
}

func docPath(root string) string {
	return filepath.Join(root, document.FileName)
}

func assertNoDocument(t *testing.T, root string) {
	t.Helper()
	if _, err := os.Stat(docPath(root)); !os.IsNotExist(err) {
		t.Errorf("document should not exist (stat err = %v)", err)
	}
}

func assertLogged(t *testing.T, logs *bytes.Buffer, msgs ...string) {
	t.Helper()
	for _, msg := range msgs {
		if !strings.Contains(logs.String(), msg) {
			t.Errorf("log output missing %q:\n%s", msg, logs.String())
		}
	}
}

func TestScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h, root, _ := newHandler(t)

	b := h.Save(ctx, session.Buffers{Input: "hello"})
	if b.Input != "" {
		t.Errorf("Input after save = %q", b.Input)
	}
	data, err := os.ReadFile(docPath(root))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\n" {
		t.Errorf("content = %q", data)
	}

	b.Input = "world"
	b = h.Save(ctx, b)
	data, err = os.ReadFile(docPath(root))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\nworld\n" {
		t.Errorf("content = %q", data)
	}

	b = h.Load(ctx, b)
	if b.Output != "hello\nworld\n" {
		t.Errorf("Output = %q", b.Output)
	}

	b = h.Clear(ctx, b)
	if b.Output != "" {
		t.Errorf("Output after clear = %q", b.Output)
	}
	assertNoDocument(t, root)
}

func TestSave_EmptyInputIsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h, root, _ := newHandler(t)

	in := session.Buffers{Input: "", Output: "shown"}
	if got := h.Save(ctx, in); got != in {
		t.Errorf("Save = %+v, want %+v", got, in)
	}
	assertNoDocument(t, root)
}

func TestSave_KeepsOutput(t *testing.T) {
	t.Parallel()
	h, _, _ := newHandler(t)

	b := h.Save(context.Background(), session.Buffers{Input: "x", Output: "previous"})
	if want := (session.Buffers{Output: "previous"}); b != want {
		t.Errorf("Save = %+v, want %+v", b, want)
	}
}

func TestLoad_MissingDocumentLeavesBuffers(t *testing.T) {
	t.Parallel()
	h, _, logs := newHandler(t)

	in := session.Buffers{Input: "typing", Output: "stale"}
	if got := h.Load(context.Background(), in); got != in {
		t.Errorf("Load = %+v, want %+v", got, in)
	}
	assertLogged(t, logs, "no document")
}

func TestLoad_NeverTouchesInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h, _, _ := newHandler(t)

	b := h.Save(ctx, session.Buffers{Input: "saved"})
	b.Input = "draft"
	b = h.Load(ctx, b)
	if b.Input != "draft" || b.Output != "saved\n" {
		t.Errorf("Load = %+v", b)
	}
}

func TestLoad_InvalidEncodingLeavesBuffers(t *testing.T) {
	t.Parallel()
	h, root, logs := newHandler(t)
	if err := os.WriteFile(docPath(root), []byte{0xc3, 0x28}, 0o644); err != nil {
		t.Fatal(err)
	}

	in := session.Buffers{Output: "kept"}
	if got := h.Load(context.Background(), in); got != in {
		t.Errorf("Load = %+v, want %+v", got, in)
	}
	assertLogged(t, logs, "load failed")
}

func TestClear_TwiceIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	h, root, logs := newHandler(t)

	b := h.Save(ctx, session.Buffers{Input: "x"})
	b = h.Load(ctx, b)
	b = h.Clear(ctx, b)
	if b.Output != "" {
		t.Errorf("Output after clear = %q", b.Output)
	}
	b.Output = "again"
	b = h.Clear(ctx, b)
	if b.Output != "" {
		t.Errorf("Output after second clear = %q", b.Output)
	}
	assertNoDocument(t, root)
	assertLogged(t, logs, "no document found")
}

type brokenDocument struct{ err error }

func (d brokenDocument) Append(context.Context, string) (bool, error) { return false, d.err }
func (d brokenDocument) Load(context.Context) (string, error)         { return "", d.err }
func (d brokenDocument) Clear(context.Context) (bool, error)          { return false, d.err }
func (d brokenDocument) Path() string                                 { return "/nowhere/text.txt" }

func TestFailuresAreSwallowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	var logs bytes.Buffer
	h := session.NewHandler(brokenDocument{err: errors.New("disk full")}, slog.New(slog.NewTextHandler(&logs, nil)))

	b := h.Save(ctx, session.Buffers{Input: "lost", Output: "o"})
	if want := (session.Buffers{Output: "o"}); b != want {
		t.Errorf("Save = %+v, want %+v", b, want)
	}

	b = h.Load(ctx, b)
	if b.Output != "o" {
		t.Errorf("Output after failed load = %q", b.Output)
	}

	b = h.Clear(ctx, b)
	if b.Output != "" {
		t.Errorf("Output after failed clear = %q", b.Output)
	}

	assertLogged(t, &logs, "save failed", "load failed", "clear failed", "disk full")
}
