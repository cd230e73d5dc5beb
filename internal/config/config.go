// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/maauso/gametorch/internal/gametorch"
)

// Configuration errors.
var (
	// ErrAPIKeyRequired is returned when GAMETORCH_API_KEY is not set.
	ErrAPIKeyRequired = errors.New("config: GAMETORCH_API_KEY is required")
	// ErrInvalidHTTPTimeout is returned when HTTP_TIMEOUT is not positive.
	ErrInvalidHTTPTimeout = errors.New("config: HTTP_TIMEOUT must be positive")
)

// Config holds all configuration for the CLI.
type Config struct {
	// API settings
	APIKey      string        `env:"GAMETORCH_API_KEY, required" json:"-"` // Masked in JSON
	BaseURL     string        `env:"GAMETORCH_BASE_URL" json:"base_url,omitempty"`
	Local       bool          `env:"GAMETORCH_LOCAL, default=false" json:"local"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=60s" json:"http_timeout"`

	// Artifact settings
	OutputDir string `env:"GAMETORCH_OUTPUT_DIR" json:"output_dir,omitempty"`

	// Optional S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=warn" json:"log_level"`   // "debug", "info", "warn", "error"
}

// S3Enabled returns true if S3 configuration is provided.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

// ResolveBaseURL returns the API base URL: an explicit GAMETORCH_BASE_URL
// wins, then the local server when Local is set, then production.
func (c *Config) ResolveBaseURL() string {
	switch {
	case c.BaseURL != "":
		return c.BaseURL
	case c.Local:
		return gametorch.LocalBaseURL
	default:
		return gametorch.ProductionBaseURL
	}
}

// Load reads configuration from environment variables using go-envconfig.
// It returns an error if required variables are not set.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain errors for required fields
		if strings.Contains(err.Error(), "GAMETORCH_API_KEY") {
			return nil, ErrAPIKeyRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrAPIKeyRequired
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidHTTPTimeout, c.HTTPTimeout)
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// Logs go to stderr so stdout carries only command output.
func (c *Config) NewLogger() *slog.Logger {
	return c.newLogger(os.Stderr)
}

func (c *Config) newLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.LogLevel)}

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{BaseURL: %s, HTTPTimeout: %s, OutputDir: %s, S3Bucket: %s, S3Region: %s, LogFormat: %s, LogLevel: %s}",
		c.ResolveBaseURL(),
		c.HTTPTimeout,
		c.OutputDir,
		c.S3Bucket,
		c.S3Region,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
