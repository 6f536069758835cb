package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bountylab/scoring-api/internal/domain/model"
	apperrors "github.com/bountylab/scoring-api/internal/errors"
	"github.com/bountylab/scoring-api/internal/mocks"
)

func logEntriesAt(base time.Time, messages ...string) []model.LogEntry {
	entries := make([]model.LogEntry, 0, len(messages))
	for i, msg := range messages {
		entries = append(entries, model.LogEntry{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Message:   msg,
		})
	}
	return entries
}

type logServiceFixture struct {
	svc         *LogService
	source      *mocks.MockLogSource
	jobs        *mocks.MockScoringJobRepository
	submissions *mocks.MockSubmissionRepository
}

func newLogServiceFixture(t *testing.T) *logServiceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	source := mocks.NewMockLogSource(ctrl)
	jobs := mocks.NewMockScoringJobRepository(ctrl)
	submissions := mocks.NewMockSubmissionRepository(ctrl)

	svc, err := NewLogService(LogServiceOptions{
		Source:      source,
		Jobs:        jobs,
		Submissions: submissions,
	})
	require.NoError(t, err)

	return &logServiceFixture{svc: svc, source: source, jobs: jobs, submissions: submissions}
}

// expectJobAccess wires the job -> submission -> bounty owner resolution the
// viewer check walks through.
func (f *logServiceFixture) expectJobAccess(jobID, submitterID, ownerID string) {
	f.jobs.EXPECT().GetByID(gomock.Any(), jobID).
		Return(&model.ScoringJob{ID: jobID, SubmissionID: "sub-1"}, nil)
	f.submissions.EXPECT().GetByID(gomock.Any(), "sub-1").
		Return(&model.Submission{ID: "sub-1", BountyID: "bounty-1", SubmitterID: submitterID}, nil)
	f.submissions.EXPECT().BountyOwner(gomock.Any(), "bounty-1").
		Return(ownerID, nil)
}

func TestLogServicePage(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("requires job id", func(t *testing.T) {
		f := newLogServiceFixture(t)

		_, err := f.svc.Page(ctx, adminSession(), model.LogQuery{})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("defaults limit and reports more", func(t *testing.T) {
		f := newLogServiceFixture(t)
		f.expectJobAccess("job-1", "hunter-1", "owner-1")

		full := make([]model.LogEntry, DefaultLogPageSize)
		for i := range full {
			full[i] = model.LogEntry{Timestamp: base.Add(time.Duration(i) * time.Second), Message: "line"}
		}
		f.source.EXPECT().List(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, q model.LogQuery) ([]model.LogEntry, error) {
				assert.Equal(t, DefaultLogPageSize, q.Limit)
				assert.False(t, q.Full)
				return full, nil
			})

		page, err := f.svc.Page(ctx, userSession("hunter-1"), model.LogQuery{JobID: "job-1"})
		require.NoError(t, err)
		assert.Len(t, page.Entries, DefaultLogPageSize)
		assert.True(t, page.HasMore)
	})

	t.Run("short page means no more", func(t *testing.T) {
		f := newLogServiceFixture(t)
		f.expectJobAccess("job-1", "hunter-1", "owner-1")

		f.source.EXPECT().List(ctx, gomock.Any()).
			Return(logEntriesAt(base, "c", "a", "b"), nil)

		page, err := f.svc.Page(ctx, adminSession(), model.LogQuery{JobID: "job-1", Limit: 10})
		require.NoError(t, err)
		assert.False(t, page.HasMore)

		// Entries come back sorted ascending regardless of source order.
		require.Len(t, page.Entries, 3)
		assert.Equal(t, "c", page.Entries[0].Message)
		assert.Equal(t, "a", page.Entries[1].Message)
		assert.Equal(t, "b", page.Entries[2].Message)
	})

	t.Run("bounty owner may read", func(t *testing.T) {
		f := newLogServiceFixture(t)
		f.expectJobAccess("job-1", "hunter-1", "owner-1")

		f.source.EXPECT().List(ctx, gomock.Any()).
			Return(logEntriesAt(base, "a"), nil)

		page, err := f.svc.Page(ctx, userSession("owner-1"), model.LogQuery{JobID: "job-1", Limit: 10})
		require.NoError(t, err)
		assert.Len(t, page.Entries, 1)
	})

	t.Run("stranger gets not found without touching the source", func(t *testing.T) {
		f := newLogServiceFixture(t)
		f.expectJobAccess("job-1", "hunter-1", "owner-1")

		_, err := f.svc.Page(ctx, userSession("stranger"), model.LogQuery{JobID: "job-1", Limit: 10})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("source failure maps to unavailable", func(t *testing.T) {
		f := newLogServiceFixture(t)
		f.expectJobAccess("job-1", "hunter-1", "owner-1")

		f.source.EXPECT().List(ctx, gomock.Any()).
			Return(nil, errors.New("log store down"))

		_, err := f.svc.Page(ctx, adminSession(), model.LogQuery{JobID: "job-1", Limit: 10})
		require.Error(t, err)
		assert.True(t, apperrors.IsUnavailable(err))
	})
}

func TestLogServiceExport(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("serializes the full set", func(t *testing.T) {
		f := newLogServiceFixture(t)
		f.expectJobAccess("job-1", "hunter-1", "owner-1")

		entries := []model.LogEntry{
			{Timestamp: base.Add(time.Second), Message: "checks passed", TaskName: "static-analysis"},
			{Timestamp: base, Message: "starting evaluation"},
		}
		f.source.EXPECT().List(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, q model.LogQuery) ([]model.LogEntry, error) {
				// Export must bypass the pagination window entirely.
				assert.True(t, q.Full)
				return entries, nil
			})

		out, err := f.svc.Export(ctx, userSession("hunter-1"), "job-1", "")
		require.NoError(t, err)
		assert.Equal(t,
			"2025-06-01T09:00:00Z starting evaluation\n"+
				"2025-06-01T09:00:01Z [static-analysis] checks passed\n",
			out)
	})

	t.Run("fails loudly on zero entries", func(t *testing.T) {
		f := newLogServiceFixture(t)
		f.expectJobAccess("job-1", "hunter-1", "owner-1")

		f.source.EXPECT().List(ctx, gomock.Any()).Return(nil, nil)

		_, err := f.svc.Export(ctx, adminSession(), "job-1", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoLogEntries)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		f := newLogServiceFixture(t)
		f.expectJobAccess("job-1", "hunter-1", "owner-1")

		_, err := f.svc.Export(ctx, userSession("stranger"), "job-1", "")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
