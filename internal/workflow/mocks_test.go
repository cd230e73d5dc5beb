package workflow

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/maauso/gametorch/internal/animation"
)

// mockClient implements gametorch.Client for testing.
type mockClient struct {
	mock.Mock
}

func (m *mockClient) AnimationResults(ctx context.Context, animationID string) (json.RawMessage, error) {
	args := m.Called(ctx, animationID)
	return rawArg(args, 0), args.Error(1)
}

func (m *mockClient) ListAnimations(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	return rawArg(args, 0), args.Error(1)
}

func (m *mockClient) CreateAnimation(ctx context.Context, payload animation.Payload) (json.RawMessage, error) {
	args := m.Called(ctx, payload)
	return rawArg(args, 0), args.Error(1)
}

func (m *mockClient) RegenerateAnimation(ctx context.Context, animationID string) (json.RawMessage, error) {
	args := m.Called(ctx, animationID)
	return rawArg(args, 0), args.Error(1)
}

func (m *mockClient) DownloadResultZip(ctx context.Context, resultID string) ([]byte, error) {
	args := m.Called(ctx, resultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func rawArg(args mock.Arguments, i int) json.RawMessage {
	if args.Get(i) == nil {
		return nil
	}
	switch v := args.Get(i).(type) {
	case string:
		return json.RawMessage(v)
	default:
		return v.(json.RawMessage)
	}
}

// mockStorage implements storage.Storage for testing.
type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) SaveArtifact(ctx context.Context, path string, data []byte) (string, error) {
	args := m.Called(ctx, path, data)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) UploadToS3(ctx context.Context, key string, data io.Reader) (string, error) {
	args := m.Called(ctx, key, data)
	return args.String(0), args.Error(1)
}

// sleepRecorder records requested sleeps instead of waiting.
type sleepRecorder struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (r *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slept = append(r.slept, d)
	return nil
}

func (r *sleepRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slept)
}

func (r *sleepRecorder) Total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total time.Duration
	for _, d := range r.slept {
		total += d
	}
	return total
}
