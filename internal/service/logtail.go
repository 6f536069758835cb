package service

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

// DefaultLogPollInterval is how often a live tail polls the log source.
const DefaultLogPollInterval = 2 * time.Second

// ErrFetchInFlight is returned when a backward fetch is requested while one
// is already running. Backward pagination is serialized per view so a page is
// never prepended twice.
var ErrFetchInFlight = errors.New("backward log fetch already in flight")

// LogTailViewOptions groups dependencies for a LogTailView.
type LogTailViewOptions struct {
	Source   core.LogSource // Required: external append-only log store
	JobID    string         // Required: job scope
	TaskName string         // Optional: restrict to one task's lines
	PageSize int            // Optional: window size, defaults to DefaultLogPageSize
	Interval time.Duration  // Optional: poll interval, defaults to DefaultLogPollInterval
	Logger   *slog.Logger   // Optional: structured logger
	Metrics  statsd.Sink    // Optional: metrics sink
}

// LogTailView is an ordered, de-duplicated, memory-bounded view over one
// job's log stream. It supports a live-following tail and backward pagination
// into older entries. All methods are safe for concurrent use; Run drives the
// live tail until its context is cancelled.
type LogTailView struct {
	source   core.LogSource
	jobID    string
	taskName string
	pageSize int
	interval time.Duration
	logger   *slog.Logger
	metrics  statsd.Sink

	mu            sync.Mutex
	entries       []model.LogEntry
	seen          map[string]bool
	hasMore       bool
	hasMoreKnown  bool
	live          bool
	paused        bool
	autoScroll    bool
	fetchingOlder bool
	// extended is set once backward pagination has grown the view; from then
	// on live polls stop trimming so prepended history stays put.
	extended bool
	lastErr  error
}

// LogTailSnapshot is the projection handed to rendering collaborators.
type LogTailSnapshot struct {
	Entries     []model.LogEntry `json:"entries"`
	HasMoreLogs bool             `json:"has_more_logs"`
	IsLive      bool             `json:"is_live"`
	AutoScroll  bool             `json:"auto_scroll"`
	// LastError is the most recent recoverable fetch failure, empty when the
	// last poll succeeded. A failed poll never clears the entries.
	LastError string `json:"last_error,omitempty"`
}

// NewLogTailView constructs a LogTailView for one job.
func NewLogTailView(opts LogTailViewOptions) (*LogTailView, error) {
	if opts.Source == nil {
		return nil, errors.New("LogSource is required")
	}
	if opts.JobID == "" {
		return nil, errors.New("job id is required")
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultLogPageSize
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultLogPollInterval
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "log_tail", "job_id", opts.JobID)
	}

	return &LogTailView{
		source:     opts.Source,
		jobID:      opts.JobID,
		taskName:   opts.TaskName,
		pageSize:   opts.PageSize,
		interval:   opts.Interval,
		logger:     logger,
		metrics:    opts.Metrics,
		seen:       make(map[string]bool),
		hasMore:    true,
		autoScroll: true,
	}, nil
}

// Run polls the log source at the configured interval until ctx is cancelled.
// An initial refresh happens immediately. Poll failures keep the last-known
// good entries and are retried on the next tick.
func (v *LogTailView) Run(ctx context.Context) error {
	v.mu.Lock()
	v.live = true
	v.mu.Unlock()
	defer func() {
		v.mu.Lock()
		v.live = false
		v.mu.Unlock()
	}()

	if err := v.RefreshTail(ctx); err != nil && v.logger != nil {
		v.logger.WarnContext(ctx, "initial log fetch failed", "error", err)
	}

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if v.isPaused() {
				continue
			}
			if err := v.RefreshTail(ctx); err != nil && v.logger != nil {
				v.logger.WarnContext(ctx, "log poll failed", "error", err)
			}
		}
	}
}

// RefreshTail fetches the newest window and merges it into the view. The
// bottom window is effectively replaced; overlap with already-known entries
// is dropped by the (timestamp, message) de-duplication key. Whether the
// viewer's scroll follows the new bottom is the separate AutoScroll toggle.
func (v *LogTailView) RefreshTail(ctx context.Context) error {
	fetched, err := v.source.List(ctx, model.LogQuery{
		JobID:    v.jobID,
		TaskName: v.taskName,
		Limit:    v.pageSize,
	})

	v.mu.Lock()
	defer v.mu.Unlock()

	if err != nil {
		// Retain last-known-good state; surface a recoverable error only.
		v.lastErr = err
		v.emitPoll("error")
		return err
	}
	v.lastErr = nil

	// The very first window also answers whether older entries can exist.
	if !v.hasMoreKnown {
		v.hasMore = len(fetched) >= v.pageSize
		v.hasMoreKnown = true
	}

	v.mergeLocked(fetched)
	v.trimLocked()
	v.emitPoll("success")
	return nil
}

// FetchOlder fetches the next page of entries strictly older than the oldest
// known timestamp and prepends it. Calls are serialized: a call while a fetch
// is in flight fails with ErrFetchInFlight. Once a short page marks the view
// exhausted, further calls are no-ops.
func (v *LogTailView) FetchOlder(ctx context.Context) error {
	v.mu.Lock()
	if !v.hasMore {
		v.mu.Unlock()
		return nil
	}
	if v.fetchingOlder {
		v.mu.Unlock()
		return ErrFetchInFlight
	}
	v.fetchingOlder = true
	var before *time.Time
	if len(v.entries) > 0 {
		oldest := v.entries[0].Timestamp
		before = &oldest
	}
	v.mu.Unlock()

	fetched, err := v.source.List(ctx, model.LogQuery{
		JobID:    v.jobID,
		TaskName: v.taskName,
		Limit:    v.pageSize,
		Before:   before,
	})

	v.mu.Lock()
	defer v.mu.Unlock()
	v.fetchingOlder = false

	if err != nil {
		v.lastErr = err
		return err
	}
	v.lastErr = nil

	// A short page means the backlog is exhausted; never fetch again.
	if len(fetched) < v.pageSize {
		v.hasMore = false
		v.hasMoreKnown = true
	}
	if len(fetched) > 0 {
		v.extended = true
	}
	v.mergeLocked(fetched)
	return nil
}

// mergeLocked folds fetched entries into the sorted, de-duplicated window.
// Callers must hold v.mu.
func (v *LogTailView) mergeLocked(fetched []model.LogEntry) {
	added := false
	for _, e := range fetched {
		key := e.Key()
		if v.seen[key] {
			continue
		}
		v.seen[key] = true
		v.entries = append(v.entries, e)
		added = true
	}
	if added {
		model.SortLogEntries(v.entries)
	}
}

// trimLocked drops everything above the newest pageSize entries so a
// long-running tail stays memory-bounded. Once FetchOlder has prepended
// history the trim is suspended; the viewer asked for those entries.
// Callers must hold v.mu.
func (v *LogTailView) trimLocked() {
	if v.extended || len(v.entries) <= v.pageSize {
		return
	}
	drop := v.entries[:len(v.entries)-v.pageSize]
	for _, e := range drop {
		delete(v.seen, e.Key())
	}
	v.entries = append([]model.LogEntry(nil), v.entries[len(drop):]...)
	// The dropped entries still exist in the store, so backward pagination
	// can reach them again.
	v.hasMore = true
	v.hasMoreKnown = true
}

// SetAutoScroll toggles whether the rendered view follows the newest entry.
// Fetching continues either way; only the follow behaviour changes.
func (v *LogTailView) SetAutoScroll(follow bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.autoScroll = follow
}

// SetPaused suspends or resumes live polling without tearing the view down.
func (v *LogTailView) SetPaused(paused bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paused = paused
}

func (v *LogTailView) isPaused() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.paused
}

// Snapshot returns a copy of the current view state.
func (v *LogTailView) Snapshot() LogTailSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	entries := make([]model.LogEntry, len(v.entries))
	copy(entries, v.entries)

	snap := LogTailSnapshot{
		Entries:     entries,
		HasMoreLogs: v.hasMore,
		IsLive:      v.live,
		AutoScroll:  v.autoScroll,
	}
	if v.lastErr != nil {
		snap.LastError = v.lastErr.Error()
	}
	return snap
}

func (v *LogTailView) emitPoll(result string) {
	if v.metrics == nil {
		return
	}
	v.metrics.Count("logtail.poll", 1, map[string]string{"result": result})
	v.metrics.Gauge("logtail.window_size", float64(len(v.entries)), nil)
}
