package gametorch

import (
	"errors"
	"fmt"
)

// Static errors for GameTorch client operations.
var (
	// ErrAPIKeyNotSet is returned when no API key was provided.
	ErrAPIKeyNotSet = errors.New("gametorch: API key is required")
	// ErrIDRequired is returned when an animation or result ID is empty.
	ErrIDRequired = errors.New("gametorch: identifier is required")
	// ErrArtifactNotReady is returned when the result zip has not been materialised yet (HTTP 500).
	ErrArtifactNotReady = errors.New("gametorch: artifact not ready")
	// ErrInvalidJSON is returned when a successful response does not carry valid JSON.
	ErrInvalidJSON = errors.New("gametorch: response is not valid JSON")
)

// RemoteError is returned when the API answers with a non-2xx status.
type RemoteError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("gametorch: %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// TransportError is returned when the API could not be reached or the
// response could not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gametorch: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
