package daemon

import (
	"context"
	"log/slog"
	"time"
)

// Reconcilable repairs drift between tracked and actual windows.
type Reconcilable interface {
	Reconcile() error
}

// Reconciler periodically checks for state drift and corrects it.
type Reconciler struct {
	interval time.Duration
	target   Reconcilable
	logger   *slog.Logger
}

// NewReconciler creates a reconciler that runs target every interval.
// A non-positive interval falls back to ten seconds.
func NewReconciler(interval time.Duration, target Reconcilable, logger *slog.Logger) *Reconciler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		interval: interval,
		target:   target,
		logger:   logger.With("component", "reconciler"),
	}
}

func (r *Reconciler) String() string { return "reconciler" }

// Serve runs the reconciliation loop until ctx is cancelled.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.ReconcileNow()
		}
	}
}

// ReconcileNow performs a single reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	if err := r.target.Reconcile(); err != nil {
		r.logger.Warn("reconcile failed", "error", err)
	}
}
