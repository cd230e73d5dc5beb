// Package gametorch provides an HTTP client for the GameTorch animation API.
package gametorch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/maauso/gametorch/internal/animation"
)

// Known API base URLs.
const (
	ProductionBaseURL = "https://gametorch.app"
	LocalBaseURL      = "http://localhost:8000"
)

// Client defines the interface for interacting with the GameTorch API.
// JSON responses are returned undecoded because their shape differs
// between backend versions.
type Client interface {
	// AnimationResults fetches GET /api/animation_results/{animationID}.
	AnimationResults(ctx context.Context, animationID string) (json.RawMessage, error)

	// ListAnimations fetches GET /api/animations.
	ListAnimations(ctx context.Context) (json.RawMessage, error)

	// CreateAnimation submits POST /api/animation.
	CreateAnimation(ctx context.Context, payload animation.Payload) (json.RawMessage, error)

	// RegenerateAnimation submits POST /api/animation/regenerate/{animationID}.
	RegenerateAnimation(ctx context.Context, animationID string) (json.RawMessage, error)

	// DownloadResultZip fetches GET /api/animation_result_zip/{resultID} as raw bytes.
	DownloadResultZip(ctx context.Context, resultID string) ([]byte, error)
}

// HTTPClient is the HTTP implementation of the Client interface.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption is a function that configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithAPIKey sets the API key used as bearer token.
func WithAPIKey(key string) ClientOption {
	return func(hc *HTTPClient) {
		hc.apiKey = key
	}
}

// WithBaseURL sets the API base URL (production, local, or a custom host).
func WithBaseURL(u string) ClientOption {
	return func(hc *HTTPClient) {
		hc.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) ClientOption {
	return func(hc *HTTPClient) {
		hc.logger = l
	}
}

// NewClient creates a new GameTorch HTTP client.
// The API key can be set via the WithAPIKey option. If not provided,
// it is read from the environment variable GAMETORCH_API_KEY.
func NewClient(opts ...ClientOption) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL:    ProductionBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = os.Getenv("GAMETORCH_API_KEY")
	}

	if c.apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}

	return c, nil
}

// BaseURL returns the API base URL the client talks to.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// AnimationResults fetches the result records of an animation.
func (c *HTTPClient) AnimationResults(ctx context.Context, animationID string) (json.RawMessage, error) {
	if animationID == "" {
		return nil, ErrIDRequired
	}
	return c.doJSON(ctx, http.MethodGet, "/api/animation_results/"+url.PathEscape(animationID), nil)
}

// ListAnimations lists all animations belonging to the API key's owner.
func (c *HTTPClient) ListAnimations(ctx context.Context) (json.RawMessage, error) {
	return c.doJSON(ctx, http.MethodGet, "/api/animations", nil)
}

// CreateAnimation submits a new generation request.
func (c *HTTPClient) CreateAnimation(ctx context.Context, payload animation.Payload) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gametorch: marshal request: %w", err)
	}
	return c.doJSON(ctx, http.MethodPost, "/api/animation", body)
}

// RegenerateAnimation asks the service to render an existing animation again
// with the same parameters.
func (c *HTTPClient) RegenerateAnimation(ctx context.Context, animationID string) (json.RawMessage, error) {
	if animationID == "" {
		return nil, ErrIDRequired
	}
	return c.doJSON(ctx, http.MethodPost, "/api/animation/regenerate/"+url.PathEscape(animationID), nil)
}

// DownloadResultZip downloads the zip archive of a completed result.
// A 500 response means the archive is not materialised yet and is reported
// as ErrArtifactNotReady, still carrying the *RemoteError.
func (c *HTTPClient) DownloadResultZip(ctx context.Context, resultID string) ([]byte, error) {
	if resultID == "" {
		return nil, ErrIDRequired
	}

	data, err := c.do(ctx, http.MethodGet, "/api/animation_result_zip/"+url.PathEscape(resultID), nil)
	if err != nil {
		var re *RemoteError
		if errors.As(err, &re) && re.StatusCode == http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %w", ErrArtifactNotReady, re)
		}
		return nil, err
	}
	return data, nil
}

// doJSON performs a request and checks that the response body is JSON.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body []byte) (json.RawMessage, error) {
	data, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %w: %s %s", animation.ErrMalformedResponse, ErrInvalidJSON, method, path)
	}
	return json.RawMessage(data), nil
}

// do performs a single authenticated HTTP request and returns the body of a
// 2xx response.
func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("gametorch: create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read " + path, Err: err}
	}

	c.logger.Debug("gametorch request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
		slog.Int("bytes", len(respBody)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	return respBody, nil
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)
