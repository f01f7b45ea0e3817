package worker

import (
	"context"
	"time"

	"github.com/brightclass/roster/internal/app/models"
	"github.com/brightclass/roster/internal/pkg/logger"
)

// JobQueue hands out claimed jobs. ClaimNext returns (nil, nil) when there
// is nothing to run.
type JobQueue interface {
	ClaimNext(ctx context.Context, requeueAfter time.Duration) (*models.ImportJob, error)
}

// ImportRunner processes one claimed job to completion
type ImportRunner interface {
	Run(ctx context.Context, job *models.ImportJob) (models.ImportSummary, error)
}

// Runner polls the job queue and feeds claimed jobs to the import service.
// A single runner processes one job at a time; scale-out happens by running
// more instances, which the SKIP LOCKED claim keeps safe.
type Runner struct {
	queue        JobQueue
	service      ImportRunner
	pollInterval time.Duration
	requeueAfter time.Duration
}

// NewRunner creates a worker runner
func NewRunner(queue JobQueue, service ImportRunner, pollInterval, requeueAfter time.Duration) *Runner {
	return &Runner{
		queue:        queue,
		service:      service,
		pollInterval: pollInterval,
		requeueAfter: requeueAfter,
	}
}

// Start runs the poll loop until the context is cancelled
func (r *Runner) Start(ctx context.Context) {
	logger.Info().Dur("pollInterval", r.pollInterval).
		Dur("requeueAfter", r.requeueAfter).
		Msg("Import worker started")

	for {
		if err := ctx.Err(); err != nil {
			logger.Info().Msg("Import worker stopped")
			return
		}

		ran, err := r.runOnce(ctx)
		if err != nil {
			// The claimed job stays PROCESSING and becomes reclaimable
			// after requeueAfter
			logger.Error().Err(err).Msg("Import job failed")
		}

		if ran {
			// Drain the queue before going back to sleep
			continue
		}

		if !sleepWithContext(ctx, r.pollInterval) {
			logger.Info().Msg("Import worker stopped")
			return
		}
	}
}

// runOnce claims and runs at most one job. The bool reports whether a job
// was claimed.
func (r *Runner) runOnce(ctx context.Context) (bool, error) {
	job, err := r.queue.ClaimNext(ctx, r.requeueAfter)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	if _, err := r.service.Run(ctx, job); err != nil {
		return true, err
	}
	return true, nil
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
