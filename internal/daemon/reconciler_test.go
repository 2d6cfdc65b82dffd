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
)

type countingTarget struct {
	calls atomic.Int32
	err   error
	panic bool
}

func (c *countingTarget) Reconcile() error {
	c.calls.Add(1)
	if c.panic {
		panic("bad state")
	}
	return c.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReconcilerRunsOnInterval(t *testing.T) {
	target := &countingTarget{}
	r := NewReconciler(5*time.Millisecond, target, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	require.Eventually(t, func() bool { return target.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestReconcileNowSurvivesFailures(t *testing.T) {
	target := &countingTarget{err: errors.New("gone")}
	r := NewReconciler(time.Hour, target, quietLogger())
	r.ReconcileNow()

	target.panic = true
	assert.NotPanics(t, r.ReconcileNow)
	assert.Equal(t, int32(2), target.calls.Load())
}

func TestNewReconcilerDefaults(t *testing.T) {
	r := NewReconciler(0, &countingTarget{}, nil)
	assert.Equal(t, 10*time.Second, r.interval)
	assert.Equal(t, "reconciler", r.String())
}
