package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hackledger/internal/infra/media/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestPutWritesDataAndSidecar(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	info, err := s.Put(ctx, "decks/alpha.pdf", strings.NewReader("pitch deck"), "application/pdf")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.ETag == "" {
		t.Fatalf("expected checksum etag, got empty")
	}
	if info.Size != int64(len("pitch deck")) {
		t.Fatalf("size = %d", info.Size)
	}
	if _, err := os.Stat(filepath.Join(s.root, "decks", "alpha.pdf.meta")); err != nil {
		t.Fatalf("missing sidecar: %v", err)
	}

	got, rc, err := s.Get(ctx, "decks/alpha.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != "pitch deck" {
		t.Fatalf("body = %q", body)
	}
	if got.ContentType != "application/pdf" || got.ETag != info.ETag {
		t.Fatalf("metadata mismatch: %+v vs %+v", got, info)
	}
}

func TestPutRejectsExistingKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Put(ctx, "logo.png", strings.NewReader("a"), "image/png"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(ctx, "logo.png", strings.NewReader("b"), "image/png"); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestSanitizeKeyRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"", "  ", "../escape", "a/../../b", "/etc/passwd"} {
		if _, err := s.Put(ctx, key, strings.NewReader("x"), ""); !errors.Is(err, core.ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestDeleteRemovesDataAndSidecar(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Put(ctx, "logo.png", strings.NewReader("a"), "image/png"); err != nil {
		t.Fatalf("put: %v", err)
	}
	existed, err := s.Delete(ctx, "logo.png")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	if _, err := os.Stat(filepath.Join(s.root, "logo.png.meta")); !os.IsNotExist(err) {
		t.Fatalf("sidecar survived delete: %v", err)
	}
	existed, err = s.Delete(ctx, "logo.png")
	if err != nil || existed {
		t.Fatalf("delete missing: existed=%v err=%v", existed, err)
	}
}

func TestListWalksNestedKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"decks/b.pdf", "decks/a.pdf", "logos/x.png"} {
		if _, err := s.Put(ctx, key, strings.NewReader(key), "application/octet-stream"); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := s.List(ctx, "decks/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "decks/a.pdf" || infos[1].Key != "decks/b.pdf" {
		t.Fatalf("unexpected listing: %+v", infos)
	}
	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(all))
	}
}

func TestPresignReturnsLocalURL(t *testing.T) {
	s := newTestStore(t)
	u, err := s.PresignURL(context.Background(), "decks/alpha.pdf", core.SignedURLOptions{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if u != "http://local.media/decks/alpha.pdf" {
		t.Fatalf("url = %q", u)
	}
}
