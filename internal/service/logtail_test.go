package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bountylab/scoring-api/internal/domain/model"
)

// logSourceFunc adapts a function to core.LogSource for in-test stubbing.
type logSourceFunc func(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error)

func (f logSourceFunc) List(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error) {
	return f(ctx, q)
}

func staticSource(entries []model.LogEntry) logSourceFunc {
	return func(_ context.Context, _ model.LogQuery) ([]model.LogEntry, error) {
		return entries, nil
	}
}

func TestNewLogTailView_RequiresDeps(t *testing.T) {
	_, err := NewLogTailView(LogTailViewOptions{JobID: "job-1"})
	require.Error(t, err)

	_, err = NewLogTailView(LogTailViewOptions{Source: staticSource(nil)})
	require.Error(t, err)
}

func TestLogTailView_RefreshDeduplicatesOverlap(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	window := logEntriesAt(base, "one", "two", "three")
	var mu sync.Mutex
	view, err := NewLogTailView(LogTailViewOptions{
		Source: logSourceFunc(func(_ context.Context, _ model.LogQuery) ([]model.LogEntry, error) {
			mu.Lock()
			defer mu.Unlock()
			out := make([]model.LogEntry, len(window))
			copy(out, window)
			return out, nil
		}),
		JobID:    "job-1",
		PageSize: 10,
	})
	require.NoError(t, err)

	require.NoError(t, view.RefreshTail(ctx))
	snap := view.Snapshot()
	require.Len(t, snap.Entries, 3)

	// The tail advanced by two lines; the refetched window overlaps the
	// previous one. Overlap must not duplicate.
	mu.Lock()
	window = append(window[1:],
		model.LogEntry{Timestamp: base.Add(3 * time.Second), Message: "four"},
		model.LogEntry{Timestamp: base.Add(4 * time.Second), Message: "five"},
	)
	mu.Unlock()

	require.NoError(t, view.RefreshTail(ctx))
	snap = view.Snapshot()
	require.Len(t, snap.Entries, 5)
	for i, want := range []string{"one", "two", "three", "four", "five"} {
		assert.Equal(t, want, snap.Entries[i].Message)
	}
}

func TestLogTailView_FirstWindowDecidesHasMore(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("full window keeps pagination open", func(t *testing.T) {
		view, err := NewLogTailView(LogTailViewOptions{
			Source:   staticSource(logEntriesAt(base, "a", "b", "c")),
			JobID:    "job-1",
			PageSize: 3,
		})
		require.NoError(t, err)

		require.NoError(t, view.RefreshTail(ctx))
		assert.True(t, view.Snapshot().HasMoreLogs)
	})

	t.Run("short window closes pagination", func(t *testing.T) {
		view, err := NewLogTailView(LogTailViewOptions{
			Source:   staticSource(logEntriesAt(base, "a", "b")),
			JobID:    "job-1",
			PageSize: 3,
		})
		require.NoError(t, err)

		require.NoError(t, view.RefreshTail(ctx))
		assert.False(t, view.Snapshot().HasMoreLogs)
	})
}

func TestLogTailView_FetchOlderPrependsAndExhausts(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// Backlog of 8 entries, page size 3: tail shows the newest 3, a first
	// backward fetch returns a full page of 3, a second returns the remaining
	// 2 and closes pagination for good.
	backlog := logEntriesAt(base, "m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8")

	calls := 0
	source := logSourceFunc(func(_ context.Context, q model.LogQuery) ([]model.LogEntry, error) {
		calls++
		eligible := backlog
		if q.Before != nil {
			var older []model.LogEntry
			for _, e := range backlog {
				if e.Timestamp.Before(*q.Before) {
					older = append(older, e)
				}
			}
			eligible = older
		}
		if len(eligible) > q.Limit {
			eligible = eligible[len(eligible)-q.Limit:]
		}
		return eligible, nil
	})

	view, err := NewLogTailView(LogTailViewOptions{Source: source, JobID: "job-1", PageSize: 3})
	require.NoError(t, err)

	require.NoError(t, view.RefreshTail(ctx))
	snap := view.Snapshot()
	require.Len(t, snap.Entries, 3)
	assert.Equal(t, "m6", snap.Entries[0].Message)
	assert.True(t, snap.HasMoreLogs)

	require.NoError(t, view.FetchOlder(ctx))
	snap = view.Snapshot()
	require.Len(t, snap.Entries, 6)
	assert.Equal(t, "m3", snap.Entries[0].Message)
	assert.True(t, snap.HasMoreLogs)

	// Short page: backlog exhausted.
	require.NoError(t, view.FetchOlder(ctx))
	snap = view.Snapshot()
	require.Len(t, snap.Entries, 8)
	assert.Equal(t, "m1", snap.Entries[0].Message)
	assert.False(t, snap.HasMoreLogs)

	// Exhausted views never hit the source again.
	before := calls
	require.NoError(t, view.FetchOlder(ctx))
	assert.Equal(t, before, calls)
}

func TestLogTailView_FetchOlderSerialized(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	entered := make(chan struct{})
	release := make(chan struct{})
	source := logSourceFunc(func(_ context.Context, q model.LogQuery) ([]model.LogEntry, error) {
		if q.Before != nil {
			close(entered)
			<-release
		}
		return logEntriesAt(base, "a", "b", "c"), nil
	})

	view, err := NewLogTailView(LogTailViewOptions{Source: source, JobID: "job-1", PageSize: 3})
	require.NoError(t, err)
	require.NoError(t, view.RefreshTail(ctx))

	done := make(chan error, 1)
	go func() { done <- view.FetchOlder(ctx) }()

	<-entered
	err = view.FetchOlder(ctx)
	assert.ErrorIs(t, err, ErrFetchInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestLogTailView_LiveWindowStaysBounded(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// Every poll returns a fresh, disjoint window, simulating a job that logs
	// faster than the poll interval.
	var polls int
	source := logSourceFunc(func(_ context.Context, q model.LogQuery) ([]model.LogEntry, error) {
		window := make([]model.LogEntry, q.Limit)
		for i := range window {
			window[i] = model.LogEntry{
				Timestamp: base.Add(time.Duration(polls*q.Limit+i) * time.Second),
				Message:   "line",
			}
		}
		polls++
		return window, nil
	})

	view, err := NewLogTailView(LogTailViewOptions{Source: source, JobID: "job-1", PageSize: 10})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, view.RefreshTail(ctx))
	}

	snap := view.Snapshot()
	require.Len(t, snap.Entries, 10, "live window must stay at page size")
	// Only the newest window survives; the dropped backlog stays reachable
	// through backward pagination.
	assert.Equal(t, base.Add(490*time.Second), snap.Entries[0].Timestamp)
	assert.True(t, snap.HasMoreLogs)
}

func TestLogTailView_TrimSparesPaginatedHistory(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	tail := logEntriesAt(base, "m4", "m5", "m6")
	source := logSourceFunc(func(_ context.Context, q model.LogQuery) ([]model.LogEntry, error) {
		if q.Before != nil {
			return logEntriesAt(base.Add(-time.Minute), "m1", "m2", "m3"), nil
		}
		out := make([]model.LogEntry, len(tail))
		copy(out, tail)
		return out, nil
	})

	view, err := NewLogTailView(LogTailViewOptions{Source: source, JobID: "job-1", PageSize: 3})
	require.NoError(t, err)

	require.NoError(t, view.RefreshTail(ctx))
	require.NoError(t, view.FetchOlder(ctx))
	require.Len(t, view.Snapshot().Entries, 6)

	// The tail advances past the old window. Paginated history must survive
	// the next live poll untrimmed.
	tail = logEntriesAt(base.Add(10*time.Second), "m7", "m8", "m9")
	require.NoError(t, view.RefreshTail(ctx))

	snap := view.Snapshot()
	require.Len(t, snap.Entries, 9)
	assert.Equal(t, "m1", snap.Entries[0].Message)
	assert.Equal(t, "m9", snap.Entries[8].Message)
}

func TestLogTailView_FetchOlderClearsLastError(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	var fail bool
	source := logSourceFunc(func(_ context.Context, q model.LogQuery) ([]model.LogEntry, error) {
		if q.Before != nil {
			return logEntriesAt(base.Add(-time.Minute), "older"), nil
		}
		if fail {
			return nil, errors.New("log store down")
		}
		return logEntriesAt(base, "a", "b", "c"), nil
	})

	view, err := NewLogTailView(LogTailViewOptions{Source: source, JobID: "job-1", PageSize: 3})
	require.NoError(t, err)
	require.NoError(t, view.RefreshTail(ctx))

	fail = true
	require.Error(t, view.RefreshTail(ctx))
	require.Contains(t, view.Snapshot().LastError, "log store down")

	// A successful backward fetch is as good a recovery signal as a poll.
	require.NoError(t, view.FetchOlder(ctx))
	assert.Empty(t, view.Snapshot().LastError)
}

func TestLogTailView_PollFailureRetainsEntries(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	var fail bool
	source := logSourceFunc(func(_ context.Context, _ model.LogQuery) ([]model.LogEntry, error) {
		if fail {
			return nil, errors.New("log store down")
		}
		return logEntriesAt(base, "a", "b"), nil
	})

	view, err := NewLogTailView(LogTailViewOptions{Source: source, JobID: "job-1", PageSize: 5})
	require.NoError(t, err)

	require.NoError(t, view.RefreshTail(ctx))
	require.Len(t, view.Snapshot().Entries, 2)

	fail = true
	require.Error(t, view.RefreshTail(ctx))
	snap := view.Snapshot()
	assert.Len(t, snap.Entries, 2, "failed poll must keep last-known-good entries")
	assert.Contains(t, snap.LastError, "log store down")

	fail = false
	require.NoError(t, view.RefreshTail(ctx))
	assert.Empty(t, view.Snapshot().LastError)
}

func TestLogTailView_RunStopsOnCancel(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	polled := make(chan struct{}, 1)
	source := logSourceFunc(func(_ context.Context, _ model.LogQuery) ([]model.LogEntry, error) {
		select {
		case polled <- struct{}{}:
		default:
		}
		return logEntriesAt(base, "a"), nil
	})

	view, err := NewLogTailView(LogTailViewOptions{
		Source:   source,
		JobID:    "job-1",
		PageSize: 5,
		Interval: 5 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- view.Run(ctx) }()

	<-polled
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "cancellation is a clean shutdown")
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	assert.False(t, view.Snapshot().IsLive)
}

func TestLogTailView_AutoScrollToggle(t *testing.T) {
	view, err := NewLogTailView(LogTailViewOptions{
		Source: staticSource(nil),
		JobID:  "job-1",
	})
	require.NoError(t, err)

	assert.True(t, view.Snapshot().AutoScroll)
	view.SetAutoScroll(false)
	assert.False(t, view.Snapshot().AutoScroll)
	view.SetAutoScroll(true)
	assert.True(t, view.Snapshot().AutoScroll)
}
