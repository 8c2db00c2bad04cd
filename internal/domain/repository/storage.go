package repository

import (
	"context"
	"errors"
)

// ErrBlobNotFound is returned by Get when the object does not exist.
// Delete treats a missing object as success.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore is the durable byte store behind file records, addressed by
// opaque storage key. The core never branches on which backend is active.
type BlobStore interface {
	// Put stores data under key with the given content type.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Get returns the stored bytes and the backend's reported content type.
	Get(ctx context.Context, key string) ([]byte, string, error)

	// Delete removes the object. Deleting an absent object is not an error.
	Delete(ctx context.Context, key string) error
}

// StorageBackend selects a blob store implementation at startup.
type StorageBackend string

const (
	StorageBackendLocal StorageBackend = "local"
	StorageBackendS3    StorageBackend = "s3"
)
