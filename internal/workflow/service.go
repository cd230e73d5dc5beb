// Package workflow runs the GameTorch animation workflow: submit a
// generation request, poll until the render is terminal, download the zip
// artifact and persist it.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/maauso/gametorch/internal/animation"
	"github.com/maauso/gametorch/internal/gametorch"
	"github.com/maauso/gametorch/internal/storage"
)

// Default timing of the workflow's two retry loops.
const (
	DefaultPollInterval          = 5 * time.Second
	DefaultArtifactRetryInterval = 5 * time.Second
	DefaultArtifactWaitCeiling   = 120 * time.Second
	DefaultProgressInterval      = 30 * time.Second
)

// GenerateInput contains the parameters of one generate run.
type GenerateInput struct {
	// Request holds the generation parameters.
	Request animation.GenerationRequest
	// Block waits for the render and downloads the artifact when true.
	Block bool
	// OutputFile is the artifact destination. Empty derives
	// animation_<animation_id>_<result_id>.zip.
	OutputFile string
	// Silent suppresses progress messages.
	Silent bool
	// Upload pushes the saved artifact to S3.
	Upload bool
}

// Outcome summarises a successful blocking run.
type Outcome struct {
	AnimationID  animation.ID `json:"animation_id"`
	ResultID     animation.ID `json:"result_id"`
	ArtifactPath string       `json:"artifact_path"`
	ArtifactURL  string       `json:"artifact_url,omitempty"`
}

// GenerateResult is what Generate returns. Outcome is nil for a
// non-blocking run, in which case the raw submission response is the result.
type GenerateResult struct {
	Submission json.RawMessage
	Outcome    *Outcome
}

// MarshalJSON renders the outcome of a blocking run, or the raw submission
// response of a non-blocking one.
func (r GenerateResult) MarshalJSON() ([]byte, error) {
	if r.Outcome != nil {
		return json.Marshal(r.Outcome)
	}
	if len(r.Submission) == 0 {
		return []byte("null"), nil
	}
	return r.Submission, nil
}

// ArtifactName derives the default artifact file name. Identifiers that
// could escape the output directory are rejected as malformed.
func ArtifactName(animationID, resultID animation.ID) (string, error) {
	for _, id := range []animation.ID{animationID, resultID} {
		if strings.ContainsAny(string(id), `/\`) || strings.Contains(string(id), "..") {
			return "", fmt.Errorf("%w: id %q is not usable in a file name", animation.ErrMalformedResponse, id)
		}
	}
	return fmt.Sprintf("animation_%s_%s.zip", animationID, resultID), nil
}

// Service orchestrates animation runs against the GameTorch API.
// It holds no per-run state, so concurrent runs need no coordination.
type Service struct {
	client   gametorch.Client
	store    storage.Storage
	logger   *slog.Logger
	progress io.Writer

	pollInterval          time.Duration
	artifactRetryInterval time.Duration
	artifactWaitCeiling   time.Duration
	progressInterval      time.Duration
	sleep                 SleepFunc
}

// Option configures a Service.
type Option func(*Service)

// WithPollInterval sets the delay between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithArtifactRetryInterval sets the delay between artifact download attempts.
func WithArtifactRetryInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.artifactRetryInterval = d
		}
	}
}

// WithArtifactWaitCeiling sets the cumulative wait after which a missing
// artifact fails the run.
func WithArtifactWaitCeiling(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.artifactWaitCeiling = d
		}
	}
}

// WithProgressInterval sets how often "still polling" messages are printed.
// Zero disables them.
func WithProgressInterval(d time.Duration) Option {
	return func(s *Service) {
		s.progressInterval = d
	}
}

// WithProgressWriter sets where progress messages go. Nil silences them.
func WithProgressWriter(w io.Writer) Option {
	return func(s *Service) {
		s.progress = w
	}
}

// WithSleepFunc replaces the function used to wait between retries.
func WithSleepFunc(fn SleepFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// NewService creates a new Service.
func NewService(client gametorch.Client, store storage.Storage, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		client:                client,
		store:                 store,
		logger:                logger,
		pollInterval:          DefaultPollInterval,
		artifactRetryInterval: DefaultArtifactRetryInterval,
		artifactWaitCeiling:   DefaultArtifactWaitCeiling,
		progressInterval:      DefaultProgressInterval,
		sleep:                 sleepContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate submits a generation request and, in blocking mode, waits for
// the render, downloads the artifact and writes it to disk.
// The artifact is the only file written, and only once every remote step
// has succeeded.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	logger := s.logger.With(slog.String("run_id", uuid.NewString()))
	progress := NewProgress(s.progress)
	if in.Silent {
		progress = Progress{}
	}

	payload, err := in.Request.Build()
	if err != nil {
		return nil, err
	}

	progress.Printf("Starting animation generation request...")
	logger.Info("submitting animation",
		slog.Int("duration_seconds", payload.DurationSeconds),
		slog.Bool("input_image", payload.InputImageBase64 != ""),
		slog.Bool("block", in.Block),
	)

	submission, err := s.client.CreateAnimation(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("submit animation: %w", err)
	}

	animationID, err := animation.DecodeAnimationID(submission)
	if err != nil {
		return nil, fmt.Errorf("submit animation: %w", err)
	}

	progress.Printf("Animation created successfully (ID: %s).", animationID)
	logger = logger.With(slog.String("animation_id", animationID.String()))

	if !in.Block {
		logger.Info("animation submitted, not waiting")
		return &GenerateResult{Submission: submission}, nil
	}

	job := animation.NewJob(animationID)

	progress.Printf("Polling for results every %d seconds...", int(s.pollInterval.Seconds()))
	poller := &Poller{
		client:        s.client,
		interval:      s.pollInterval,
		progressEvery: s.progressInterval,
		sleep:         s.sleep,
		logger:        logger,
	}
	rec, err := poller.Wait(ctx, job, progress)
	if err != nil {
		return nil, err
	}

	if rec.ID.IsZero() {
		return nil, fmt.Errorf("animation %s: %w: result id missing", animationID, animation.ErrMalformedResponse)
	}
	job.ResultID = rec.ID

	path := in.OutputFile
	if path == "" {
		if path, err = ArtifactName(job.ID, job.ResultID); err != nil {
			return nil, fmt.Errorf("animation %s: %w", animationID, err)
		}
	}

	logger.Info("render complete",
		slog.String("result_id", job.ResultID.String()),
		slog.Int("polls", job.Polls),
		slog.Duration("render_time", job.CompletedAt.Sub(job.SubmittedAt)),
	)
	progress.Printf("Render complete, downloading ZIP...")

	fetcher := &Fetcher{
		client:   s.client,
		interval: s.artifactRetryInterval,
		ceiling:  s.artifactWaitCeiling,
		sleep:    s.sleep,
		logger:   logger,
	}
	data, err := fetcher.Fetch(ctx, job.ResultID, progress)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{
		AnimationID: job.ID,
		ResultID:    job.ResultID,
	}

	// The upload runs before the local write so a failed upload leaves no file.
	if in.Upload {
		key := "animations/" + filepath.Base(path)
		url, err := s.store.UploadToS3(ctx, key, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("upload artifact %s: %w", key, err)
		}
		outcome.ArtifactURL = url
		progress.Printf("ZIP uploaded to %s", url)
	}

	saved, err := s.store.SaveArtifact(ctx, path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: save artifact %s: %w", animation.ErrIO, path, err)
	}
	outcome.ArtifactPath = saved
	progress.Printf("ZIP saved to %s", saved)

	logger.Info("animation saved",
		slog.String("artifact_path", saved),
		slog.Int("bytes", len(data)),
	)

	return &GenerateResult{Submission: submission, Outcome: outcome}, nil
}

// Get returns the raw result records of an animation.
func (s *Service) Get(ctx context.Context, animationID string) (json.RawMessage, error) {
	raw, err := s.client.AnimationResults(ctx, animationID)
	if err != nil {
		return nil, fmt.Errorf("get animation %s: %w", animationID, err)
	}
	return raw, nil
}

// List returns the raw list of the caller's animations.
func (s *Service) List(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.client.ListAnimations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list animations: %w", err)
	}
	return raw, nil
}

// Regenerate renders an existing animation again with the same parameters
// and returns the raw response, which names the new animation_id.
func (s *Service) Regenerate(ctx context.Context, animationID string) (json.RawMessage, error) {
	raw, err := s.client.RegenerateAnimation(ctx, animationID)
	if err != nil {
		return nil, fmt.Errorf("regenerate animation %s: %w", animationID, err)
	}

	newID, err := animation.DecodeAnimationID(raw)
	if err != nil {
		return nil, fmt.Errorf("regenerate animation %s: %w", animationID, err)
	}

	s.logger.Info("animation regenerated",
		slog.String("animation_id", animationID),
		slog.String("new_animation_id", newID.String()),
	)
	return raw, nil
}
