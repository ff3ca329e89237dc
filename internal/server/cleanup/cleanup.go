// Package cleanup periodically deletes expired verification and reset
// tokens.
package cleanup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// Worker runs the sweep on a cron schedule.
type Worker struct {
	repomanager repomanager.RepositoryManager
	schedule    string
	logger      logging.Logger
	now         func() time.Time

	mu       sync.Mutex
	lastRun  time.Time
	deleted  int64
	failures int64
}

// Stats is a snapshot of what the worker has done so far.
type Stats struct {
	LastRun  time.Time
	Deleted  int64
	Failures int64
}

// NewWorker validates schedule, a standard five-field cron expression or a
// descriptor such as "@hourly".
func NewWorker(m repomanager.RepositoryManager, schedule string, l logging.Logger) (*Worker, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("cleanup schedule %q: %w", schedule, err)
	}
	return &Worker{
		repomanager: m,
		schedule:    schedule,
		logger:      l.With("module", "cleanup"),
		now:         time.Now,
	}, nil
}

// RunOnce deletes every token that expired before now.
func (w *Worker) RunOnce(ctx context.Context) (int64, error) {
	now := w.now()
	n, err := w.repomanager.VerificationTokens(w.repomanager.DB()).DeleteExpired(ctx, now)

	w.mu.Lock()
	w.lastRun = now
	if err != nil {
		w.failures++
	} else {
		w.deleted += n
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error(ctx, "expired token cleanup failed", "error", err)
		return 0, err
	}
	if n > 0 {
		w.logger.Info(ctx, "expired tokens deleted", "count", n)
	}
	return n, nil
}

func (w *Worker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{LastRun: w.lastRun, Deleted: w.deleted, Failures: w.failures}
}

// Run sweeps once immediately, then on schedule until ctx is cancelled.
// It waits for an in-flight sweep before returning.
func (w *Worker) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() { _, _ = w.RunOnce(ctx) }); err != nil {
		return err
	}

	_, _ = w.RunOnce(ctx)

	w.logger.Info(ctx, "Starting cleanup scheduler", "schedule", w.schedule)
	c.Start()

	<-ctx.Done()
	w.logger.Info(ctx, "Stopping cleanup scheduler...")
	<-c.Stop().Done()
	return nil
}
