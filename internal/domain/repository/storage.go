package repository

import (
	"context"
	"io"
	"time"
)

// ObjectStorage defines the interface for object storage operations.
// Implementations should be provided by the infrastructure layer (e.g., MinIO, S3).
type ObjectStorage interface {
	// Upload stores an object, replacing any object under the same key.
	// size may be -1 when unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, opts UploadOptions) error

	// Download retrieves an object from the storage.
	// Caller is responsible for closing the returned ReadCloser.
	// Returns ErrObjectNotFound if the key does not exist.
	Download(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)

	// Delete removes an object from the storage. Missing keys are ignored.
	Delete(ctx context.Context, key string) error

	// List returns every object whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Exists checks if an object exists in the storage.
	Exists(ctx context.Context, key string) (bool, error)
}

// UploadOptions describes an object being uploaded.
type UploadOptions struct {
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}
