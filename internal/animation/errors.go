package animation

import "errors"

// Static errors for the animation workflow. Callers wrap them with context
// and inspect them with errors.Is.
var (
	// ErrInvalidParameter is returned when a request parameter has a value outside its allowed set.
	ErrInvalidParameter = errors.New("animation: invalid parameter")
	// ErrConflictingParameter is returned when mutually exclusive parameters are both supplied.
	ErrConflictingParameter = errors.New("animation: conflicting parameters")
	// ErrIO is returned when a local file cannot be read or written.
	ErrIO = errors.New("animation: i/o error")
	// ErrMalformedResponse is returned when an expected field is absent from a response payload.
	ErrMalformedResponse = errors.New("animation: malformed response")
	// ErrJobFailedRefunded is returned when the service reports the animation failed and was refunded.
	ErrJobFailedRefunded = errors.New("animation: failed and refunded (status=3)")
	// ErrTimeout is returned when the artifact never became available within the wait ceiling.
	ErrTimeout = errors.New("animation: timed out waiting for .zip file")
	// ErrInvalidTransition is returned when an observed status cannot follow the current one.
	ErrInvalidTransition = errors.New("animation: invalid state transition")
)
