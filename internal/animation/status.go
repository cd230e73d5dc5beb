// Package animation holds the domain model of a GameTorch animation run:
// identifiers, the observed job lifecycle, the generation request builder
// and the decoding of result payloads.
package animation

import "fmt"

// Status is the numeric lifecycle state reported by the animation_results endpoint.
type Status int

// Lifecycle states as reported by the API.
const (
	// StatusUnknown is used when the payload carried no usable status.
	StatusUnknown Status = 0
	// StatusGenerating indicates the animation is still being rendered.
	StatusGenerating Status = 1
	// StatusComplete indicates rendering finished and a result is available.
	StatusComplete Status = 2
	// StatusFailedRefunded indicates rendering failed and the credits were refunded.
	StatusFailedRefunded Status = 3
)

// IsKnown returns true if the status is one of the documented lifecycle states.
func (s Status) IsKnown() bool {
	switch s {
	case StatusGenerating, StatusComplete, StatusFailedRefunded:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusFailedRefunded
}

// String returns the human label for the status.
func (s Status) String() string {
	switch s {
	case StatusGenerating:
		return "generating"
	case StatusComplete:
		return "complete"
	case StatusFailedRefunded:
		return "failed_refunded"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}
