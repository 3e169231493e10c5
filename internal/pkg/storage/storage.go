package storage

import (
	"context"
	"io"
)

// Storage defines the interface for blob storage operations. Paths are
// relative keys; implementations decide the physical layout.
type Storage interface {
	// Save writes content under the given key, overwriting any
	// existing blob.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get returns a reader for the blob at the given key.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, path string) error
}
