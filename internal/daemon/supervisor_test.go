package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thejerf/suture/v4"
)

func TestSanitizeError(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, SanitizeError(ctx, nil))

	plain := errors.New("boom")
	assert.Same(t, plain, SanitizeError(ctx, plain))

	err := SanitizeError(ctx, context.Canceled)
	require.Error(t, err)
	assert.NotErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "context canceled")

	err = SanitizeError(ctx, errors.Join(suture.ErrDoNotRestart, context.DeadlineExceeded))
	assert.ErrorIs(t, err, suture.ErrDoNotRestart)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)

	done, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, SanitizeError(done, plain), context.Canceled)
}

func TestSupervisorRestartsFailedService(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	super := NewSupervisor("test", log)

	var starts atomic.Int32
	runs := make(chan struct{}, 8)
	Add(super, NewServiceFunc("flaky", func(ctx context.Context) error {
		runs <- struct{}{}
		if starts.Add(1) == 1 {
			// looks like a context error but ctx is still live
			return context.Canceled
		}
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errC := super.ServeBackground(ctx)

	for i := 0; i < 2; i++ {
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			t.Fatalf("service ran %d times, want 2", i)
		}
	}

	cancel()
	assert.ErrorIs(t, <-errC, context.Canceled)
}

func TestServiceFuncName(t *testing.T) {
	s := NewServiceFunc("x-events", func(context.Context) error { return nil })
	assert.Equal(t, "x-events", s.String())
	assert.NoError(t, s.Serve(context.Background()))
}
