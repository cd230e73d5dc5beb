package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maauso/gametorch/internal/animation"
	"github.com/maauso/gametorch/internal/gametorch"
)

// Fetcher downloads the zip artifact of a completed result, waiting while
// the service reports it is not materialised yet.
type Fetcher struct {
	client   gametorch.Client
	interval time.Duration
	ceiling  time.Duration
	sleep    SleepFunc
	logger   *slog.Logger
}

// Fetch returns the artifact bytes for resultID.
// Only gametorch.ErrArtifactNotReady is retried, at a fixed interval, until
// the cumulative wait reaches the ceiling. Any other failure is permanent.
func (f *Fetcher) Fetch(ctx context.Context, resultID animation.ID, progress Progress) ([]byte, error) {
	var waited time.Duration

	for attempt := 1; ; attempt++ {
		data, err := f.client.DownloadResultZip(ctx, resultID.String())
		if err == nil {
			f.logger.Debug("downloaded artifact",
				slog.String("result_id", resultID.String()),
				slog.Int("attempts", attempt),
				slog.Int("bytes", len(data)),
			)
			return data, nil
		}

		if !errors.Is(err, gametorch.ErrArtifactNotReady) {
			return nil, fmt.Errorf("download zip for result %s: %w", resultID, err)
		}

		if waited == 0 {
			progress.Printf("Animation rendered successfully, waiting on .zip file...")
		}
		if waited >= f.ceiling {
			return nil, fmt.Errorf("result %s after %s: %w", resultID, waited, animation.ErrTimeout)
		}

		if err := f.sleep(ctx, f.interval); err != nil {
			return nil, fmt.Errorf("download zip for result %s: %w", resultID, err)
		}
		waited += f.interval
	}
}
