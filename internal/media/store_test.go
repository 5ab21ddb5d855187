package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "media.db"), filepath.Join(dir, "blobs"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndOpen(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	content := []byte("hello media")
	f, err := s.Save(ctx, "note.txt", "text/plain", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if f.ID == "" {
		t.Fatal("expected a reference id")
	}
	if f.Size != int64(len(content)) || f.Name != "note.txt" || f.ContentType != "text/plain" {
		t.Fatalf("unexpected metadata: %+v", f)
	}

	meta, blob, err := s.Open(ctx, f.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer blob.Close()

	if meta.Name != "note.txt" || meta.Size != f.Size {
		t.Fatalf("unexpected stored metadata: %+v", meta)
	}

	got, err := io.ReadAll(blob)
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("blob contents differ: %q", got)
	}
}

func TestOpenUnknownID(t *testing.T) {
	s := newTestStore(t)

	if _, _, err := s.Open(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveDistinctIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Save(ctx, "a.bin", "application/octet-stream", bytes.NewReader([]byte{1}))
	if err != nil {
		t.Fatalf("save a: %v", err)
	}
	b, err := s.Save(ctx, "a.bin", "application/octet-stream", bytes.NewReader([]byte{2}))
	if err != nil {
		t.Fatalf("save b: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %s twice", a.ID)
	}
}
