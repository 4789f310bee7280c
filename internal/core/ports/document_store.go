package ports

import (
	"context"
	"io"
)

// DocumentStore persists uploaded identity documents.
type DocumentStore interface {
	// Save validates and stores the document, returning the key it is stored
	// under. Non-PDF content yields domain.ErrInvalidDocument and nothing is
	// written.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
}
