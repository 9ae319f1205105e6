package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/metrics"
)

// DefaultJobTimeout bounds a single background job.
const DefaultJobTimeout = 2 * time.Minute

// ErrRunnerClosed is returned by Go after Shutdown has started.
var ErrRunnerClosed = errors.New("service: runner is shut down")

// Job is a unit of background work.
type Job func(ctx context.Context) error

// Runner executes background jobs after the request that scheduled them has
// returned. Jobs for the same trip run one at a time in scheduling order
// within this process.
type Runner struct {
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
	locks   *tripLocks

	mu      sync.Mutex
	closed  bool
	running sync.WaitGroup
}

// NewRunner returns a Runner. A zero timeout uses DefaultJobTimeout.
func NewRunner(timeout time.Duration, m *metrics.Metrics, logger *slog.Logger) *Runner {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{timeout: timeout, metrics: m, logger: logger, locks: newTripLocks()}
}

// Go schedules job for tripID and returns its job id without waiting.
// The job runs under a context detached from ctx's cancellation but keeping
// its values, with the Runner's timeout.
func (r *Runner) Go(ctx context.Context, tripID domain.ID, name string, job Job) (string, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return "", ErrRunnerClosed
	}
	r.running.Add(1)
	r.mu.Unlock()

	id := uuid.NewString()
	log := r.logger.With("job_id", id, "job", name, "trip_id", tripID.Hex())
	turn := r.locks.ticket(tripID)

	go func() {
		defer r.running.Done()

		unlock := turn.wait()
		defer unlock()

		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		start := time.Now()
		err := r.run(jobCtx, job)
		elapsed := time.Since(start)

		if err != nil {
			r.metrics.SyncJob(metrics.OutcomeError)
			log.Error("background job failed", "error", err, "duration_ms", elapsed.Milliseconds())
			return
		}
		r.metrics.SyncJob(metrics.OutcomeOK)
		log.Info("background job done", "duration_ms", elapsed.Milliseconds())
	}()

	return id, nil
}

func (r *Runner) run(ctx context.Context, job Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &panicError{value: p}
		}
	}()
	return job(ctx)
}

// Shutdown stops accepting jobs and waits for running ones to finish or for
// ctx to be done, whichever comes first.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("background job panicked: %v", e.value)
}
