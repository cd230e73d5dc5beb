// Package bootstrap provides dependency initialization for the gametorch CLI.
package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/maauso/gametorch/internal/config"
	"github.com/maauso/gametorch/internal/gametorch"
	"github.com/maauso/gametorch/internal/storage"
	"github.com/maauso/gametorch/internal/workflow"
)

// Dependencies holds all initialized dependencies for the CLI commands.
type Dependencies struct {
	Client  *gametorch.HTTPClient
	Storage storage.Storage
	Service *workflow.Service
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger, opts ...workflow.Option) (*Dependencies, error) {
	// Initialize storage
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Initialize GameTorch client
	client, err := gametorch.NewClient(
		gametorch.WithAPIKey(cfg.APIKey),
		gametorch.WithBaseURL(cfg.ResolveBaseURL()),
		gametorch.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		gametorch.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create GameTorch client: %w", err)
	}
	logger.Debug("GameTorch client configured", slog.String("base_url", client.BaseURL()))

	// Progress goes to stderr unless the caller overrides it
	svcOpts := append([]workflow.Option{workflow.WithProgressWriter(os.Stderr)}, opts...)
	svc := workflow.NewService(client, store, logger, svcOpts...)

	return &Dependencies{
		Client:  client,
		Storage: store,
		Service: svc,
	}, nil
}

// initStorage creates the appropriate storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.OutputDir, s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Debug("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Debug("local storage configured",
		slog.String("output_dir", cfg.OutputDir),
	)
	return localStore, nil
}
