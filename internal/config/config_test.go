package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/gametorch/internal/gametorch"
)

// clearEnv unsets every variable Load reads. t.Setenv registers the
// restore before the unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GAMETORCH_API_KEY", "GAMETORCH_BASE_URL", "GAMETORCH_LOCAL", "HTTP_TIMEOUT",
		"GAMETORCH_OUTPUT_DIR", "S3_BUCKET", "S3_REGION", "S3_ENDPOINT",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_RequiredVariables(t *testing.T) {
	t.Run("missing GAMETORCH_API_KEY returns error", func(t *testing.T) {
		clearEnv(t)

		_, err := Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAPIKeyRequired)
	})

	t.Run("API key present succeeds", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GAMETORCH_API_KEY", "test-api-key")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "test-api-key", cfg.APIKey)
	})
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GAMETORCH_API_KEY", "test-api-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Local)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.OutputDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, gametorch.ProductionBaseURL, cfg.ResolveBaseURL())
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GAMETORCH_API_KEY", "custom-api-key")
	t.Setenv("GAMETORCH_LOCAL", "true")
	t.Setenv("HTTP_TIMEOUT", "15s")
	t.Setenv("GAMETORCH_OUTPUT_DIR", "/custom/out")
	t.Setenv("S3_BUCKET", "my-bucket")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_ENDPOINT", "http://localhost:4566")
	t.Setenv("AWS_ACCESS_KEY_ID", "access-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret-key")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Local)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "/custom/out", cfg.OutputDir)
	assert.Equal(t, "my-bucket", cfg.S3Bucket)
	assert.Equal(t, "us-east-1", cfg.S3Region)
	assert.Equal(t, "http://localhost:4566", cfg.S3Endpoint)
	assert.Equal(t, "access-key", cfg.AWSAccessKeyID)
	assert.Equal(t, "secret-key", cfg.AWSSecretAccessKey)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, gametorch.LocalBaseURL, cfg.ResolveBaseURL())
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("GAMETORCH_API_KEY", "test-api-key")
	t.Setenv("HTTP_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestConfig_ResolveBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		local    bool
		expected string
	}{
		{"production by default", "", false, gametorch.ProductionBaseURL},
		{"local flag", "", true, gametorch.LocalBaseURL},
		{"explicit URL wins", "https://staging.example", true, "https://staging.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{BaseURL: tt.baseURL, Local: tt.local}
			assert.Equal(t, tt.expected, cfg.ResolveBaseURL())
		})
	}
}

func TestConfig_S3Enabled(t *testing.T) {
	tests := []struct {
		name     string
		bucket   string
		region   string
		expected bool
	}{
		{"both set", "bucket", "region", true},
		{"only bucket", "bucket", "", false},
		{"only region", "", "region", false},
		{"neither set", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				S3Bucket: tt.bucket,
				S3Region: tt.region,
			}
			assert.Equal(t, tt.expected, cfg.S3Enabled())
		})
	}
}

func TestConfig_MasksSecrets(t *testing.T) {
	cfg := &Config{
		APIKey:             "secret-key",
		AWSSecretAccessKey: "aws-secret",
		OutputDir:          "/tmp/out",
		LogFormat:          "json",
		LogLevel:           "info",
	}

	str := cfg.String()
	assert.Contains(t, str, "/tmp/out")
	assert.Contains(t, str, gametorch.ProductionBaseURL)
	assert.NotContains(t, str, "secret-key")

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-key")
	assert.NotContains(t, string(data), "aws-secret")
}

func TestConfig_NewLogger_JSON(t *testing.T) {
	cfg := &Config{LogFormat: "json", LogLevel: "info"}

	var buf bytes.Buffer
	cfg.newLogger(&buf).Info("test message", slog.String("animation_id", "42"))

	assert.Contains(t, buf.String(), `"msg":"test message"`)
	assert.Contains(t, buf.String(), `"animation_id":"42"`)
}

func TestConfig_NewLogger_Level(t *testing.T) {
	cfg := &Config{LogFormat: "text", LogLevel: "warn"}

	var buf bytes.Buffer
	logger := cfg.newLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	require.NotNil(t, cfg.NewLogger())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelWarn}, // defaults to warn
		{"", slog.LevelWarn},        // defaults to warn
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, (&Config{APIKey: "key", HTTPTimeout: time.Second}).Validate())
	assert.ErrorIs(t, (&Config{HTTPTimeout: time.Second}).Validate(), ErrAPIKeyRequired)
	assert.ErrorIs(t, (&Config{APIKey: "  ", HTTPTimeout: time.Second}).Validate(), ErrAPIKeyRequired)
	assert.ErrorIs(t, (&Config{APIKey: "key"}).Validate(), ErrInvalidHTTPTimeout)
}

func TestLoad_RunsValidate(t *testing.T) {
	t.Run("blank API key", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GAMETORCH_API_KEY", "   ")

		_, err := Load()
		assert.ErrorIs(t, err, ErrAPIKeyRequired)
	})

	t.Run("zero timeout", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GAMETORCH_API_KEY", "test-api-key")
		t.Setenv("HTTP_TIMEOUT", "0s")

		_, err := Load()
		assert.ErrorIs(t, err, ErrInvalidHTTPTimeout)
	})
}
