package analysis

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/saitalent/sporty/models"
)

// Dispatcher queues analysis jobs and runs them on a fixed worker pool.
// Enqueue never blocks request handlers for longer than the context allows.
type Dispatcher struct {
	jobs    chan Job
	workers int
	timeout time.Duration
}

// NewDispatcher sizes the pool and its backlog. timeout bounds a single
// analysis; a job that exceeds it is recorded as failed.
func NewDispatcher(workers int, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		jobs:    make(chan Job, workers*16),
		workers: workers,
		timeout: timeout,
	}
}

// Enqueue hands a job to the pool.
func (d *Dispatcher) Enqueue(ctx context.Context, job Job) error {
	select {
	case d.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches the workers and blocks until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context, a Analyzer, mark Marker, sink Sink) {
	zap.L().Info("analysis dispatcher starting", zap.Int("workers", d.workers))
	done := make(chan struct{})
	for i := 0; i < d.workers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-d.jobs:
					d.run(ctx, a, mark, sink, job)
				}
			}
		}()
	}
	for i := 0; i < d.workers; i++ {
		<-done
	}
	zap.L().Info("analysis dispatcher stopped")
}

func (d *Dispatcher) run(ctx context.Context, a Analyzer, mark Marker, sink Sink, job Job) {
	jctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	d.report(ctx, mark, job, models.RecordingAnalyzing)
	out, err := a.Analyze(jctx, job)
	switch {
	case errors.Is(err, ErrResultPending):
		// External worker owns the job now; it reports progress and the
		// outcome through the callback.
		return
	case err != nil:
		zap.L().Warn("analysis failed",
			zap.Int64("recording", job.RecordingID),
			zap.Int("attempt", job.Attempt),
			zap.Error(err))
		out = Failure(err)
	default:
		// Score is in; the cheat evaluation happens as the sink applies it.
		d.report(ctx, mark, job, models.RecordingCheatChecking)
	}

	if err := sink(ctx, job.RecordingID, job.Attempt, out); err != nil {
		zap.L().Error("analysis result not recorded",
			zap.Int64("recording", job.RecordingID),
			zap.Int("attempt", job.Attempt),
			zap.Error(err))
	}
}

func (d *Dispatcher) report(ctx context.Context, mark Marker, job Job, status string) {
	if mark == nil {
		return
	}
	if err := mark(ctx, job.RecordingID, job.Attempt, status); err != nil {
		zap.L().Warn("analysis progress not recorded",
			zap.Int64("recording", job.RecordingID),
			zap.String("status", status),
			zap.Error(err))
	}
}
