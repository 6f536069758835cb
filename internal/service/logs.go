package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bountylab/scoring-api/internal/core"
	"github.com/bountylab/scoring-api/internal/domain/auth"
	"github.com/bountylab/scoring-api/internal/domain/model"
	apperrors "github.com/bountylab/scoring-api/internal/errors"
)

// DefaultLogPageSize is the window size for paged and tailed log fetches.
const DefaultLogPageSize = 100

// ErrNoLogEntries is returned by Export when the job has no log output.
// Exports must fail loudly rather than produce a silently empty file.
var ErrNoLogEntries = errors.New("no logs available")

// LogServiceOptions groups dependencies for LogService.
type LogServiceOptions struct {
	Source      core.LogSource            // Required: external append-only log store
	Jobs        core.ScoringJobRepository // Required: resolves the job a log stream belongs to
	Submissions core.SubmissionRepository // Required: resolves the viewer's relation to the job
	Logger      *slog.Logger              // Optional: structured logger
}

// LogService reads the external append-only log store for display and export.
// The store guarantees only per-job monotonic timestamps; every read path
// re-sorts before returning. Reads are viewer-scoped: log streams carry
// grading output, so non-participants get the same not-found outcome as the
// job detail view.
type LogService struct {
	source      core.LogSource
	jobs        core.ScoringJobRepository
	submissions core.SubmissionRepository
	logger      *slog.Logger
}

// NewLogService constructs a new LogService.
func NewLogService(opts LogServiceOptions) (*LogService, error) {
	if opts.Source == nil {
		return nil, errors.New("LogSource is required")
	}
	if opts.Jobs == nil {
		return nil, errors.New("ScoringJobRepository is required")
	}
	if opts.Submissions == nil {
		return nil, errors.New("SubmissionRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "log_service")
	}
	return &LogService{
		source:      opts.Source,
		jobs:        opts.Jobs,
		submissions: opts.Submissions,
		logger:      logger,
	}, nil
}

// authorize resolves the job's submission and checks the viewer's relation to
// it. Non-participants get a not-found outcome so neither the logs nor the
// job's existence leak.
func (s *LogService) authorize(ctx context.Context, sess auth.Session, jobID string) error {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("get job: %w", err)
	}
	sub, err := s.submissions.GetByID(ctx, job.SubmissionID)
	if err != nil {
		return fmt.Errorf("get submission: %w", err)
	}
	owner, err := s.submissions.BountyOwner(ctx, sub.BountyID)
	if err != nil {
		return fmt.Errorf("resolve bounty owner: %w", err)
	}
	if !auth.ViewerContext(sess, owner).IsParticipant(sub.SubmitterID) {
		return apperrors.NotFoundf("scoring job %s not found", jobID)
	}
	return nil
}

// LogPage is one fetched window plus the pagination verdict.
type LogPage struct {
	Entries []model.LogEntry `json:"entries"`
	// HasMore reports whether older entries may still exist: false exactly
	// when the source returned fewer entries than requested.
	HasMore bool `json:"has_more"`
}

// Page fetches one window of entries for a job, sorted ascending. A Before
// timestamp restricts to strictly older entries (backward pagination).
func (s *LogService) Page(ctx context.Context, sess auth.Session, q model.LogQuery) (*LogPage, error) {
	if q.JobID == "" {
		return nil, apperrors.Validation("job id is required")
	}
	if err := s.authorize(ctx, sess, q.JobID); err != nil {
		return nil, err
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLogPageSize
	}
	q.Full = false

	entries, err := s.source.List(ctx, q)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "log source fetch failed")
	}

	model.SortLogEntries(entries)
	return &LogPage{
		Entries: entries,
		HasMore: len(entries) >= q.Limit,
	}, nil
}

// Export fetches the complete log set for a job (no pagination window),
// sorts it, and serializes it as text. It shares no state with live or paged
// views and fails with ErrNoLogEntries when nothing was returned.
func (s *LogService) Export(ctx context.Context, sess auth.Session, jobID, taskName string) (string, error) {
	if jobID == "" {
		return "", apperrors.Validation("job id is required")
	}
	if err := s.authorize(ctx, sess, jobID); err != nil {
		return "", err
	}

	entries, err := s.source.List(ctx, model.LogQuery{
		JobID:    jobID,
		TaskName: taskName,
		Full:     true,
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeUnavailable, "log export fetch failed")
	}
	if len(entries) == 0 {
		return "", apperrors.Wrap(ErrNoLogEntries, apperrors.ErrCodeNotFound, "no logs available")
	}

	model.SortLogEntries(entries)

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Timestamp.UTC().Format(time.RFC3339))
		b.WriteByte(' ')
		if e.TaskName != "" {
			b.WriteByte('[')
			b.WriteString(e.TaskName)
			b.WriteString("] ")
		}
		b.WriteString(e.Message)
		b.WriteByte('\n')
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "log export built",
			"job_id", jobID,
			"entries", len(entries),
		)
	}
	return b.String(), nil
}
