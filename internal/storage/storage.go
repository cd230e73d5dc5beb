// Package storage persists downloaded animation artifacts.
// It defines the Storage interface (port) and implementations for local
// disk and local disk plus S3 upload.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for artifact persistence.
type Storage interface {
	// SaveArtifact writes data to path, fully replacing any existing file.
	// Relative paths are resolved against the storage output directory.
	// Nothing is left at path if the write fails.
	SaveArtifact(ctx context.Context, path string, data []byte) (savedPath string, err error)

	// UploadToS3 uploads data to S3 and returns the object URL.
	// Returns ErrS3NotConfigured if S3 is not configured.
	UploadToS3(ctx context.Context, key string, data io.Reader) (url string, err error)
}
