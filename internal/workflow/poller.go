package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maauso/gametorch/internal/animation"
	"github.com/maauso/gametorch/internal/gametorch"
)

// Poller waits for an animation to reach a terminal state.
// There is no attempt cap; the caller bounds the wait through ctx.
type Poller struct {
	client        gametorch.Client
	interval      time.Duration
	progressEvery time.Duration
	sleep         SleepFunc
	logger        *slog.Logger
}

// Wait polls the animation_results endpoint for job until it completes.
// It returns the decoded terminal record, or ErrJobFailedRefunded when the
// service reports status 3. Payloads without a usable status keep the loop
// going.
func (p *Poller) Wait(ctx context.Context, job *animation.Job, progress Progress) (animation.ResultRecord, error) {
	var waited time.Duration
	nextProgress := p.progressEvery

	for {
		raw, err := p.client.AnimationResults(ctx, job.ID.String())
		if err != nil {
			return animation.ResultRecord{}, fmt.Errorf("poll animation %s: %w", job.ID, err)
		}

		rec, decErr := animation.DecodeResult(raw)
		switch {
		case decErr != nil:
			p.logger.Warn("unrecognised result payload, still polling",
				slog.String("animation_id", job.ID.String()),
				slog.String("error", decErr.Error()),
			)
		case !rec.HasStatus:
			p.logger.Warn("result payload has no status, still polling",
				slog.String("animation_id", job.ID.String()),
			)
		case !rec.Status.IsKnown():
			p.logger.Warn("unrecognised status, still polling",
				slog.String("animation_id", job.ID.String()),
				slog.Int("status", int(rec.Status)),
			)
		}

		if err := job.Observe(rec.Status); err != nil {
			return animation.ResultRecord{}, fmt.Errorf("poll animation %s: %w", job.ID, err)
		}

		p.logger.Debug("polled animation",
			slog.String("animation_id", job.ID.String()),
			slog.String("status", job.Status.String()),
			slog.Int("polls", job.Polls),
		)

		if job.IsTerminal() {
			if job.Status == animation.StatusFailedRefunded {
				return animation.ResultRecord{}, fmt.Errorf("animation %s: %w", job.ID, animation.ErrJobFailedRefunded)
			}
			return rec, nil
		}

		if err := p.sleep(ctx, p.interval); err != nil {
			return animation.ResultRecord{}, fmt.Errorf("poll animation %s: %w", job.ID, err)
		}
		waited += p.interval

		if p.progressEvery > 0 && waited >= nextProgress {
			progress.Printf("Still polling (%d total seconds elapsed)", int(waited.Seconds()))
			nextProgress += p.progressEvery
		}
	}
}
