// Package screenersync provides a background worker that keeps the screener
// registry cache warm. The registry caches on read; this worker reads on a
// fixed interval so HTTP requests rarely pay the database round trip.
package screenersync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bountylab/scoring-api/internal/core"
	"github.com/bountylab/scoring-api/internal/observability/statsd"
)

// DefaultInterval is how often the cache is refreshed.
const DefaultInterval = 30 * time.Second

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Screeners core.ScreenerRegistry // Required: registry to warm
	Interval  time.Duration         // Optional: refresh interval, defaults to DefaultInterval
	Logger    *slog.Logger          // Optional: structured logger
	Metrics   statsd.Sink           // Optional: metrics sink
}

// Runner periodically refreshes the screener registry cache.
type Runner struct {
	screeners core.ScreenerRegistry
	interval  time.Duration
	logger    *slog.Logger
	metrics   statsd.Sink
}

// NewRunner creates a new screener cache warmer with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Screeners == nil {
		return nil, errors.New("ScreenerRegistry is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "screenersync")
	}

	return &Runner{
		screeners: opts.Screeners,
		interval:  opts.Interval,
		logger:    logger,
		metrics:   opts.Metrics,
	}, nil
}

// Run warms the cache once, then on every tick until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.warm(ctx)

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
			r.warm(ctx)
		}
	}
}

// warm lists the registry, which repopulates the cache as a side effect.
// Failures are logged and retried on the next tick.
func (r *Runner) warm(ctx context.Context) {
	screeners, err := r.screeners.List(ctx)
	if err != nil {
		if r.logger != nil {
			r.logger.WarnContext(ctx, "screener cache refresh failed", "error", err)
		}
		r.emit("error")
		return
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "screener cache refreshed", "count", len(screeners))
	}
	r.emit("success")
}

func (r *Runner) emit(result string) {
	if r.metrics == nil {
		return
	}
	r.metrics.Count("screenersync.refresh", 1, map[string]string{"result": result})
}
