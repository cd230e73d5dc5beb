package bootstrap

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/gametorch/internal/config"
	"github.com/maauso/gametorch/internal/gametorch"
	"github.com/maauso/gametorch/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewDependencies_LocalStorage(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	cfg := &config.Config{
		APIKey:      "test-key",
		Local:       true,
		HTTPTimeout: 10 * time.Second,
		OutputDir:   outDir,
	}

	deps, err := NewDependencies(cfg, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, gametorch.LocalBaseURL, deps.Client.BaseURL())
	require.NotNil(t, deps.Service)

	local, ok := deps.Storage.(*storage.LocalStorage)
	require.True(t, ok, "expected *storage.LocalStorage, got %T", deps.Storage)
	assert.Equal(t, outDir, local.OutputDir())
	assert.DirExists(t, outDir)
}

func TestNewDependencies_S3Storage(t *testing.T) {
	cfg := &config.Config{
		APIKey:             "test-key",
		BaseURL:            "https://staging.example/",
		HTTPTimeout:        10 * time.Second,
		OutputDir:          t.TempDir(),
		S3Bucket:           "bucket",
		S3Region:           "us-east-1",
		S3Endpoint:         "http://localhost:4566",
		AWSAccessKeyID:     "id",
		AWSSecretAccessKey: "secret",
	}

	deps, err := NewDependencies(cfg, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example", deps.Client.BaseURL())
	_, ok := deps.Storage.(*storage.S3Storage)
	assert.True(t, ok, "expected *storage.S3Storage, got %T", deps.Storage)
}

func TestNewDependencies_MissingAPIKey(t *testing.T) {
	t.Setenv("GAMETORCH_API_KEY", "")
	cfg := &config.Config{OutputDir: t.TempDir()}

	_, err := NewDependencies(cfg, discardLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, gametorch.ErrAPIKeyNotSet)
}
