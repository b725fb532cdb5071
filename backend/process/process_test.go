package process

import (
	"context"
	"encoding/gob"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain lets the compiled test binary double as the worker process: when
// re-exec'd with WorkerEnvVar set, it runs RunWorker and exits instead of
// running the test suite. This is the same self-exec trick Backend.spawn
// uses against a real binary.
func TestMain(m *testing.M) {
	if os.Getenv(WorkerEnvVar) != "" {
		if err := RunWorker(); err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}
	os.Exit(m.Run())
}

type divRequest struct {
	A, B int
}

func init() {
	gob.Register(divRequest{})
	RegisterWorkerFunc("test.divide", func(_ context.Context, req divRequest) (float64, error) {
		if req.B == 0 {
			return 0, errors.New("division by zero")
		}
		return float64(req.A) / float64(req.B), nil
	})
}

func TestBackendDispatchRoundTrip(t *testing.T) {
	b := New[divRequest, float64]("test.divide", 1, nil)
	require.NoError(t, b.Start())
	defer b.Stop(time.Second)

	h := b.Dispatch(context.Background(), nil, divRequest{A: 6, B: 2})
	val, err := h.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3.0, val)
}

func TestBackendDispatchHandlerError(t *testing.T) {
	b := New[divRequest, float64]("test.divide", 1, nil)
	require.NoError(t, b.Start())
	defer b.Stop(time.Second)

	h := b.Dispatch(context.Background(), nil, divRequest{A: 3, B: 0})
	_, err := h.Wait(context.Background())
	assert.Error(t, err)
}

func TestBackendDispatchAfterStopErrors(t *testing.T) {
	b := New[divRequest, float64]("test.divide", 1, nil)
	require.NoError(t, b.Start())
	require.NoError(t, b.Stop(time.Second))

	h := b.Dispatch(context.Background(), nil, divRequest{A: 1, B: 1})
	_, err := h.Wait(context.Background())
	assert.Error(t, err)
}
