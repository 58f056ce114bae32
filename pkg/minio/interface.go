package minio

import (
	"context"
	"io"
)

// ObjectStorage defines the storage operations the media pipeline needs.
type ObjectStorage interface {
	// EnsureBucket creates the bucket if it does not exist.
	EnsureBucket(ctx context.Context, bucket string) error
	// Upload stores an object and returns its metadata.
	Upload(ctx context.Context, req UploadRequest) (*ObjectInfo, error)
	// Download opens an object for reading. The caller must close the reader.
	Download(ctx context.Context, bucket, object string) (io.ReadCloser, *ObjectInfo, error)
	// Stat returns object metadata without reading the body.
	Stat(ctx context.Context, bucket, object string) (*ObjectInfo, error)
	// Delete removes an object.
	Delete(ctx context.Context, bucket, object string) error
	// HealthCheck verifies the connection is alive.
	HealthCheck(ctx context.Context) error
}
