package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"

	"github.com/cleanus/booking-api/internal/core/domain"
)

const (
	documentPrefix = "idDocument-"
	documentExt    = ".pdf"
	pdfMIME        = "application/pdf"
)

// DocumentStore keeps identity documents on the local filesystem. Stored
// names are generated, never derived from client input.
type DocumentStore struct {
	dir      string
	maxBytes int64

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewDocumentStore creates dir if needed. maxBytes <= 0 disables the size cap.
func NewDocumentStore(dir string, maxBytes int64) (*DocumentStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DocumentStore{
		dir:      dir,
		maxBytes: maxBytes,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Save validates that content is a PDF and writes it under a fresh
// idDocument-<ULID>.pdf name, returning that name.
func (s *DocumentStore) Save(_ context.Context, filename string, content io.Reader) (string, error) {
	if !strings.EqualFold(filepath.Ext(filename), documentExt) {
		return "", domain.ErrInvalidDocument
	}

	if s.maxBytes > 0 {
		content = io.LimitReader(content, s.maxBytes+1)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, content)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write document: %w", err)
	}
	if s.maxBytes > 0 && n > s.maxBytes {
		return "", fmt.Errorf("%w: exceeds %d bytes", domain.ErrInvalidDocument, s.maxBytes)
	}

	mt, err := mimetype.DetectFile(tmpName)
	if err != nil {
		return "", fmt.Errorf("detect document type: %w", err)
	}
	if !mt.Is(pdfMIME) {
		return "", domain.ErrInvalidDocument
	}

	key := documentPrefix + s.newID() + documentExt
	if err := os.Rename(tmpName, filepath.Join(s.dir, key)); err != nil {
		return "", fmt.Errorf("store document: %w", err)
	}
	return key, nil
}

// Open returns the stored document named key.
func (s *DocumentStore) Open(key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("open document: %w", err)
	}
	return f, nil
}

// Remove deletes the document named key. Missing files are not an error.
func (s *DocumentStore) Remove(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove document: %w", err)
	}
	return nil
}

func (s *DocumentStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

// path rejects anything that is not a bare generated name.
func (s *DocumentStore) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || !strings.HasPrefix(key, documentPrefix) {
		return "", domain.ErrDocumentNotFound
	}
	return filepath.Join(s.dir, key), nil
}
