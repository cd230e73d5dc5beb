package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrS3NotConfigured is returned when S3 operations are attempted
// without proper configuration.
var ErrS3NotConfigured = errors.New("S3 storage is not configured")

// LocalStorage implements the Storage interface using local disk.
type LocalStorage struct {
	outputDir string
}

// NewLocalStorage creates a new LocalStorage instance.
// Relative artifact paths are resolved against outputDir; an empty outputDir
// means the current working directory. The directory is created if it
// doesn't exist.
func NewLocalStorage(outputDir string) (*LocalStorage, error) {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0750); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	return &LocalStorage{outputDir: outputDir}, nil
}

// OutputDir returns the directory relative artifact paths are resolved against.
func (s *LocalStorage) OutputDir() string {
	return s.outputDir
}

// SaveArtifact writes data to a temporary file next to the destination and
// renames it into place, so the destination is either the complete new
// artifact or untouched.
func (s *LocalStorage) SaveArtifact(ctx context.Context, path string, data []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if path == "" {
		return "", errors.New("artifact path is empty")
	}
	if !filepath.IsAbs(path) && s.outputDir != "" {
		path = filepath.Join(s.outputDir, path)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	tmpName := f.Name()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpName, 0644); err != nil { // #nosec G302 - artifacts are user-readable output
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("move artifact into place: %w", err)
	}

	return path, nil
}

// UploadToS3 is not supported by LocalStorage and returns ErrS3NotConfigured.
func (s *LocalStorage) UploadToS3(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrS3NotConfigured
}
