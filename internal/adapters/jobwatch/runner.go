// Package jobwatch provides a polling watcher over one scoring job. The
// screener owns the job's progress; watchers only re-read and re-render, so a
// detail view refreshes on a fixed interval until the job reaches a terminal
// state.
package jobwatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bountylab/scoring-api/internal/core"
	"github.com/bountylab/scoring-api/internal/domain/model"
	"github.com/bountylab/scoring-api/internal/observability/statsd"
)

// DefaultInterval is how often a watcher re-reads the job.
const DefaultInterval = 10 * time.Second

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Jobs     core.ScoringJobRepository // Required: job read surface
	JobID    string                    // Required: job to watch
	Interval time.Duration             // Optional: poll interval, defaults to DefaultInterval
	Logger   *slog.Logger              // Optional: structured logger
	Metrics  statsd.Sink               // Optional: metrics sink
}

// Runner polls one job until it reaches a terminal state or the context is
// cancelled. A failed poll keeps the last-known-good job and is retried on the
// next tick.
type Runner struct {
	jobs     core.ScoringJobRepository
	jobID    string
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink

	mu      sync.Mutex
	job     *model.ScoringJob
	lastErr error
}

// NewRunner creates a new job watcher with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Jobs == nil {
		return nil, errors.New("ScoringJobRepository is required")
	}
	if opts.JobID == "" {
		return nil, errors.New("job id is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "jobwatch", "job_id", opts.JobID)
	}

	return &Runner{
		jobs:     opts.Jobs,
		jobID:    opts.JobID,
		interval: opts.Interval,
		logger:   logger,
		metrics:  opts.Metrics,
	}, nil
}

// Run polls until the job is terminal or ctx is cancelled. A terminal job
// stops the loop: nothing can change afterwards.
func (r *Runner) Run(ctx context.Context) error {
	if terminal, err := r.poll(ctx); err == nil && terminal {
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			terminal, err := r.poll(ctx)
			if err != nil {
				if r.logger != nil {
					r.logger.WarnContext(ctx, "job poll failed", "error", err)
				}
				continue
			}
			if terminal {
				return nil
			}
		}
	}
}

// poll re-reads the job and reports whether it is terminal.
func (r *Runner) poll(ctx context.Context) (bool, error) {
	job, err := r.jobs.GetByID(ctx, r.jobID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.lastErr = err
		r.emit("error")
		return false, err
	}

	r.job = job
	r.lastErr = nil
	r.emit("success")
	return job.Status.Terminal(), nil
}

// Snapshot is the watcher's current view of the job.
type Snapshot struct {
	// Job is the last successfully fetched state, nil before the first
	// successful poll.
	Job *model.ScoringJob
	// LastError is the most recent poll failure, empty when the last poll
	// succeeded.
	LastError string
}

// Snapshot returns the last-known job state.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{}
	if r.job != nil {
		j := *r.job
		snap.Job = &j
	}
	if r.lastErr != nil {
		snap.LastError = r.lastErr.Error()
	}
	return snap
}

func (r *Runner) emit(result string) {
	if r.metrics == nil {
		return
	}
	r.metrics.Count("jobwatch.poll", 1, map[string]string{"result": result})
}
