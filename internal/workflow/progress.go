package workflow

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Progress writes human-readable status lines for a single run.
// The zero value is silent.
type Progress struct {
	w io.Writer
}

// NewProgress returns a Progress writing to w. A nil w is silent.
func NewProgress(w io.Writer) Progress {
	return Progress{w: w}
}

// Printf writes one line. It is a no-op when the progress is silent.
func (p Progress) Printf(format string, args ...any) {
	if p.w == nil {
		return
	}
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

// SleepFunc blocks for d, returning early with the context error if ctx
// is done first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// sleepContext is the default SleepFunc.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
