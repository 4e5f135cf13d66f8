package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when nothing is stored at the path.
var ErrNotFound = errors.New("storage: object not found")

// Storage is a blob store addressed by slash-separated relative paths.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	// Get returns ErrNotFound when path holds nothing.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete succeeds when path holds nothing.
	Delete(ctx context.Context, path string) error
}
