package animation

import (
	"fmt"
	"time"
)

// validTransitions defines which observed status changes are allowed.
var validTransitions = map[Status][]Status{
	StatusGenerating:     {StatusComplete, StatusFailedRefunded},
	StatusComplete:       {},
	StatusFailedRefunded: {},
}

// canTransition checks if a transition from one status to another is valid.
func canTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// Job is the client-side record of one server-side animation task.
// It is never mutated by local decisions, only by statuses observed while polling.
// A Job belongs to a single workflow run and is not safe for concurrent use.
type Job struct {
	// ID is the server-assigned animation identifier.
	ID ID
	// Status is the last observed lifecycle state.
	Status Status
	// ResultID identifies the rendered result once the job is complete.
	ResultID ID
	// Polls counts the status observations made so far.
	Polls int
	// SubmittedAt is when the submission was acknowledged.
	SubmittedAt time.Time
	// CompletedAt is when a terminal status was first observed.
	CompletedAt time.Time
}

// NewJob creates a Job in the Generating state, the state entered
// immediately after a successful submission.
func NewJob(id ID) *Job {
	return &Job{
		ID:          id,
		Status:      StatusGenerating,
		SubmittedAt: time.Now(),
	}
}

// Observe records a status reported by the service.
// Repeating the current status or reporting an unrecognised one is a no-op;
// a change that the lifecycle does not allow returns ErrInvalidTransition.
func (j *Job) Observe(status Status) error {
	j.Polls++

	if status == j.Status || !status.IsKnown() {
		return nil
	}
	if !canTransition(j.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, status)
	}

	j.Status = status
	if status.IsTerminal() {
		j.CompletedAt = time.Now()
	}
	return nil
}

// IsTerminal returns true if the job reached a terminal state.
func (j *Job) IsTerminal() bool {
	return j.Status.IsTerminal()
}
