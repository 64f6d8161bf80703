package filestore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreLifecycle(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ctx := context.Background()

	key, size, err := store.Put(ctx, MaterialDir(3), "Slides.PDF", "application/pdf", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if size != 5 {
		t.Fatalf("size = %d, want 5", size)
	}
	if !strings.HasPrefix(key, "materials/3/") || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("unexpected key %q", key)
	}

	if ok, err := store.Exists(ctx, key); err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	body, _ := io.ReadAll(rc)
	rc.Close()
	if string(body) != "hello" {
		t.Fatalf("body = %q", body)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, key); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("second Delete = %v, want ErrObjectNotFound", err)
	}
	if _, err := store.Open(ctx, key); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("Open after delete = %v, want ErrObjectNotFound", err)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	for _, key := range []string{"../etc/passwd", "/abs", "materials/../../x", ""} {
		if _, err := store.Open(context.Background(), key); err == nil || errors.Is(err, ErrObjectNotFound) {
			t.Errorf("Open(%q) = %v, want invalid key error", key, err)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestLocalStorePutLeavesNothingOnReadError(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	if _, _, err := store.Put(context.Background(), MaterialDir(1), "a.txt", "", failingReader{}); err == nil {
		t.Fatal("expected Put to fail")
	}
	entries, err := readDirRecursive(root)
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files, found %v", entries)
	}
}

func readDirRecursive(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}
