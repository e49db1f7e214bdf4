package document_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/starford/textpad/internal/apperr"
	"github.com/starford/textpad/internal/checksum"
	"github.com/starford/textpad/internal/document"
	"github.com/starford/textpad/internal/testutil"
)

func readFile(t *testing.T, root string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, document.FileName))
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	return string(data)
}

func assertAbsent(t *testing.T, root string) {
	t.Helper()
	if _, err := os.Stat(filepath.Join(root, document.FileName)); !os.IsNotExist(err) {
		t.Errorf("document should not exist (stat err = %v)", err)
	}
}

func TestAppend_CreatesThenAppends(t *testing.T) {
	ctx := context.Background()
	root, store := testutil.TestStore(t)

	ok, err := store.Append(ctx, "hello")
	if err != nil || !ok {
		t.Fatalf("first Append = %v, %v", ok, err)
	}
	if got := readFile(t, root); got != "hello\n" {
		t.Errorf("content = %q", got)
	}

	ok, err = store.Append(ctx, "world")
	if err != nil || !ok {
		t.Fatalf("second Append = %v, %v", ok, err)
	}
	if got := readFile(t, root); got != "hello\nworld\n" {
		t.Errorf("content = %q", got)
	}
}

func TestAppend_EmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	root, store := testutil.TestStore(t)

	ok, err := store.Append(ctx, "")
	if err != nil || ok {
		t.Fatalf("empty Append = %v, %v", ok, err)
	}
	assertAbsent(t, root)

	_, _ = store.Append(ctx, "a")
	_, _ = store.Append(ctx, "")
	if got := readFile(t, root); got != "a\n" {
		t.Errorf("content = %q", got)
	}
}

func TestAppend_ConcatenatesInOrder(t *testing.T) {
	ctx := context.Background()
	root, store := testutil.TestStore(t)

	inputs := []string{"one", "two words", "", "три", "line\nbreak", "  padded  "}
	var want strings.Builder
	for _, in := range inputs {
		if _, err := store.Append(ctx, in); err != nil {
			t.Fatalf("Append(%q): %v", in, err)
		}
		if in != "" {
			want.WriteString(in + "\n")
		}
	}
	if got := readFile(t, root); got != want.String() {
		t.Errorf("content = %q, want %q", got, want.String())
	}
}

func TestAppend_InvalidUTF8(t *testing.T) {
	root, store := testutil.TestStore(t)

	_, err := store.Append(context.Background(), "bad\xff")
	if !errors.Is(err, apperr.ErrInvalidEncoding) {
		t.Fatalf("err = %v, want ErrInvalidEncoding", err)
	}
	assertAbsent(t, root)
}

func TestAppendInfo_DescribesOwnWrite(t *testing.T) {
	ctx := context.Background()
	root, store := testutil.TestStore(t)

	info, saved, err := store.AppendInfo(ctx, "hello")
	if err != nil || !saved {
		t.Fatalf("AppendInfo = %v, %v", saved, err)
	}
	if !info.Exists || info.Size != 6 || info.Checksum != checksum.Sum([]byte("hello\n")) {
		t.Errorf("info = %+v", info)
	}
	if info.Path != filepath.Join(root, document.FileName) {
		t.Errorf("path = %q", info.Path)
	}

	info, saved, err = store.AppendInfo(ctx, "")
	if err != nil || saved {
		t.Fatalf("empty AppendInfo = %v, %v", saved, err)
	}
	if info.Checksum != checksum.Sum([]byte("hello\n")) {
		t.Errorf("empty append should describe the unchanged document: %+v", info)
	}
}

func TestAppendInfo_ConcurrentWritersSeeTheirOwnDigest(t *testing.T) {
	ctx := context.Background()
	root, store := testutil.TestStore(t)

	const writers = 20
	sums := make([]string, writers)
	texts := make([]string, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		texts[i] = strings.Repeat(string(rune('a'+i)), i+1)
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			info, _, err := store.AppendInfo(ctx, texts[i])
			if err != nil {
				t.Errorf("AppendInfo: %v", err)
				return
			}
			sums[i] = info.Checksum
		}(i)
	}
	wg.Wait()

	final := readFile(t, root)
	for i, text := range texts {
		end := strings.Index(final, text+"\n")
		if end < 0 {
			t.Fatalf("record %q missing from %q", text, final)
		}
		prefix := final[:end+len(text)+1]
		if sums[i] != checksum.Sum([]byte(prefix)) {
			t.Errorf("writer %d digest does not match the document right after its record", i)
		}
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	root, store := testutil.TestStore(t)

	if _, err := store.Load(ctx); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Load missing: err = %v", err)
	}

	_, _ = store.Append(ctx, "hello")
	_, _ = store.Append(ctx, "world")
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != "hello\nworld\n" {
		t.Errorf("Load = %q", got)
	}

	if err := os.WriteFile(filepath.Join(root, document.FileName), []byte{0xff, 0xfe}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, apperr.ErrInvalidEncoding) {
		t.Errorf("Load invalid: err = %v", err)
	}
}

func TestClear_Idempotent(t *testing.T) {
	ctx := context.Background()
	root, store := testutil.TestStore(t)

	if removed, err := store.Clear(ctx); err != nil || removed {
		t.Fatalf("Clear on empty root = %v, %v", removed, err)
	}

	_, _ = store.Append(ctx, "x")
	if removed, err := store.Clear(ctx); err != nil || !removed {
		t.Fatalf("Clear = %v, %v", removed, err)
	}
	assertAbsent(t, root)

	if removed, err := store.Clear(ctx); err != nil || removed {
		t.Errorf("second Clear = %v, %v", removed, err)
	}
}

func TestAppendAfterClearStartsFresh(t *testing.T) {
	ctx := context.Background()
	root, store := testutil.TestStore(t)

	_, _ = store.Append(ctx, "old")
	_, _ = store.Clear(ctx)
	_, _ = store.Append(ctx, "new")
	if got := readFile(t, root); got != "new\n" {
		t.Errorf("content = %q", got)
	}
}

func TestInfo(t *testing.T) {
	ctx := context.Background()
	root, store := testutil.TestStore(t)

	info, err := store.Info(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if info.Exists || info.Path != filepath.Join(root, document.FileName) {
		t.Errorf("info before save = %+v", info)
	}

	_, _ = store.Append(ctx, "hello")
	info, err = store.Info(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !info.Exists || info.Size != 6 || info.Checksum != checksum.Sum([]byte("hello\n")) || info.UpdatedAt.IsZero() {
		t.Errorf("info after save = %+v", info)
	}
}

func TestPath(t *testing.T) {
	root, store := testutil.TestStore(t)
	if store.Path() != filepath.Join(root, "text.txt") {
		t.Errorf("Path = %q", store.Path())
	}
	if store.Name() != "text.txt" {
		t.Errorf("Name = %q", store.Name())
	}
}
