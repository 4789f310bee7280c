package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/cleanus/booking-api/internal/core/domain"
)

const samplePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

var keyPattern = regexp.MustCompile(`^idDocument-[0-9A-HJKMNP-TV-Z]{26}\.pdf$`)

func newStore(t *testing.T, maxBytes int64) (*DocumentStore, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "documents")
	s, err := NewDocumentStore(dir, maxBytes)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s, dir
}

func TestDocumentStore_SaveAndOpen(t *testing.T) {
	s, dir := newStore(t, 0)

	key, err := s.Save(context.Background(), "Cedula.PDF", strings.NewReader(samplePDF))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !keyPattern.MatchString(key) {
		t.Fatalf("unexpected key %q", key)
	}
	if _, err := os.Stat(filepath.Join(dir, key)); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	rc, err := s.Open(key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != samplePDF {
		t.Fatalf("content mismatch")
	}
}

func TestDocumentStore_UniqueNames(t *testing.T) {
	s, _ := newStore(t, 0)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		key, err := s.Save(context.Background(), "doc.pdf", strings.NewReader(samplePDF))
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if seen[key] {
			t.Fatalf("duplicate key %q", key)
		}
		seen[key] = true
	}
}

func TestDocumentStore_RejectsNonPDF(t *testing.T) {
	s, dir := newStore(t, 0)

	cases := []struct {
		name     string
		filename string
		content  string
	}{
		{"wrong extension", "photo.png", samplePDF},
		{"renamed image", "fake.pdf", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"},
		{"plain text", "notes.pdf", "hello world"},
	}
	for _, tc := range cases {
		if _, err := s.Save(context.Background(), tc.filename, strings.NewReader(tc.content)); !errors.Is(err, domain.ErrInvalidDocument) {
			t.Fatalf("%s: expected ErrInvalidDocument, got %v", tc.name, err)
		}
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("rejected uploads must leave no files, found %d", len(entries))
	}
}

func TestDocumentStore_SizeLimit(t *testing.T) {
	s, _ := newStore(t, 32)

	big := samplePDF + strings.Repeat("x", 64)
	if _, err := s.Save(context.Background(), "big.pdf", strings.NewReader(big)); !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument for oversized upload, got %v", err)
	}
}

func TestDocumentStore_Remove(t *testing.T) {
	s, _ := newStore(t, 0)

	key, err := s.Save(context.Background(), "doc.pdf", strings.NewReader(samplePDF))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Remove(key); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.Open(key); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound after remove, got %v", err)
	}
	if err := s.Remove(key); err != nil {
		t.Fatalf("second remove must be a no-op, got %v", err)
	}
}

func TestDocumentStore_RejectsTraversal(t *testing.T) {
	s, _ := newStore(t, 0)

	for _, key := range []string{"../secret", "idDocument-../../etc/passwd", "", "other.pdf"} {
		if _, err := s.Open(key); !errors.Is(err, domain.ErrDocumentNotFound) {
			t.Fatalf("%q: expected ErrDocumentNotFound, got %v", key, err)
		}
	}
}
