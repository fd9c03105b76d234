package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Job is one reconciliation pass. A pass must be idempotent: running it
// twice in a row leaves the same state as running it once.
type Job interface {
	Name() string
	RunOnce(ctx context.Context) error
}

// PeriodicWorker runs a Job on a fixed interval. A pass that is still
// running when the next tick arrives makes that tick a no-op.
type PeriodicWorker struct {
	log      *slog.Logger
	job      Job
	interval time.Duration
	running  atomic.Bool
}

func NewPeriodicWorker(log *slog.Logger, job Job, interval time.Duration) *PeriodicWorker {
	return &PeriodicWorker{log: log, job: job, interval: interval}
}

func (w *PeriodicWorker) Name() string { return w.job.Name() }

func (w *PeriodicWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping periodic job", "name", w.job.Name())
			return nil
		case <-ticker.C:
			w.Tick(ctx)
		}
	}
}

// Tick runs one pass unless another is in progress. It reports whether the pass ran.
// A failing pass is logged and the next tick runs as usual.
func (w *PeriodicWorker) Tick(ctx context.Context) bool {
	if !w.running.CompareAndSwap(false, true) {
		w.log.Debug("Previous pass still running, skipping", "name", w.job.Name())
		return false
	}
	defer w.running.Store(false)

	if err := w.job.RunOnce(ctx); err != nil {
		w.log.Error("Periodic job failed", "name", w.job.Name(), "error", err)
	}
	return true
}
