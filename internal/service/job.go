// Package service implements the business logic of the scoring pipeline:
// applying screener-reported transitions, retry handling, rescoring, log
// consumption, and viewer-scoped projections.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bountylab/scoring-api/internal/core"
	"github.com/bountylab/scoring-api/internal/domain/auth"
	"github.com/bountylab/scoring-api/internal/domain/model"
	"github.com/bountylab/scoring-api/internal/domain/scoring"
	"github.com/bountylab/scoring-api/internal/domain/visibility"
	apperrors "github.com/bountylab/scoring-api/internal/errors"
	"github.com/bountylab/scoring-api/internal/observability/metrics"
	"github.com/bountylab/scoring-api/internal/observability/statsd"
)

// ScoringJobServiceOptions groups dependencies for ScoringJobService.
type ScoringJobServiceOptions struct {
	Jobs        core.ScoringJobRepository // Required: job repository
	Tasks       core.ScoringTaskRepository // Required: task repository
	Submissions core.SubmissionRepository // Required: submission read/update surface
	Decision    scoring.DecisionFunc      // Optional: external scoring-to-decision policy
	Logger      *slog.Logger              // Optional: structured logger
	Metrics     statsd.Sink               // Optional: metrics sink
	Clock       core.Clock                // Optional: clock override for tests
}

// ScoringJobService owns the scoring-job state machine. The external screener
// is the sole source of transitions; this service validates and reflects them,
// and originates only the retry-reset and manual-rescore paths.
type ScoringJobService struct {
	jobs        core.ScoringJobRepository
	tasks       core.ScoringTaskRepository
	submissions core.SubmissionRepository
	decide      scoring.DecisionFunc
	logger      *slog.Logger
	metrics     statsd.Sink
	clock       core.Clock
}

// NewScoringJobService constructs a new ScoringJobService.
func NewScoringJobService(opts ScoringJobServiceOptions) (*ScoringJobService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("ScoringJobRepository is required")
	}
	if opts.Tasks == nil {
		return nil, errors.New("ScoringTaskRepository is required")
	}
	if opts.Submissions == nil {
		return nil, errors.New("SubmissionRepository is required")
	}

	clock := opts.Clock
	if clock == nil {
		clock = core.RealClock{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "scoring_job_service")
	}

	return &ScoringJobService{
		jobs:        opts.Jobs,
		tasks:       opts.Tasks,
		submissions: opts.Submissions,
		decide:      opts.Decision,
		logger:      logger,
		metrics:     opts.Metrics,
		clock:       clock,
	}, nil
}

// JobProjection is the normalized per-job view handed to rendering collaborators.
type JobProjection struct {
	ID              string                    `json:"id"`
	SubmissionID    string                    `json:"submission_id"`
	ScreenerID      string                    `json:"screener_id"`
	Status          model.JobStatus           `json:"status"`
	DisplayScore    scoring.DisplayScore      `json:"display_score"`
	ErrorMessage    *string                   `json:"error_message,omitempty"`
	RetryCount      int                       `json:"retry_count"`
	MaxRetries      int                       `json:"max_retries"`
	CreatedAt       time.Time                 `json:"created_at"`
	StartedAt       *time.Time                `json:"started_at,omitempty"`
	CompletedAt     *time.Time                `json:"completed_at,omitempty"`
	DurationSeconds *float64                  `json:"duration_seconds,omitempty"`
	Tasks           []*model.ScoringTask      `json:"tasks"`
	Submission      visibility.SubmissionView `json:"submission"`
}

// Get returns the job projection for the given viewer. Non-participants get a
// not-found outcome so the job's existence is not leaked.
func (s *ScoringJobService) Get(ctx context.Context, sess auth.Session, id string) (*JobProjection, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	sub, err := s.submissions.GetByID(ctx, job.SubmissionID)
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	viewer, err := s.viewerFor(ctx, sess, sub)
	if err != nil {
		return nil, err
	}
	if !viewer.IsParticipant(sub.SubmitterID) {
		return nil, apperrors.NotFoundf("scoring job %s not found", id)
	}

	return s.project(ctx, viewer, job, sub)
}

// List returns jobs matching the filters. This is an operator surface:
// non-admin viewers are rejected.
func (s *ScoringJobService) List(
	ctx context.Context,
	sess auth.Session,
	opts *model.JobListOptions,
) ([]*model.ScoringJob, error) {
	if !sess.IsAdmin() {
		return nil, apperrors.Forbidden("listing scoring jobs requires admin")
	}
	jobs, err := s.jobs.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}

// Stats returns per-status job counts for the operator dashboard.
func (s *ScoringJobService) Stats(ctx context.Context, sess auth.Session) (*model.JobStats, error) {
	if !sess.IsAdmin() {
		return nil, apperrors.Forbidden("job stats require admin")
	}
	stats, err := s.jobs.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	return stats, nil
}

// ApplyTransition accepts a screener-reported status update, validates it as
// forward-only, applies the retry policy on failure, persists task updates,
// and recomputes the submission once every job is terminal.
func (s *ScoringJobService) ApplyTransition(ctx context.Context, upd model.JobUpdate) (*model.ScoringJob, error) {
	start := s.clock.Now()

	job, err := s.applyTransition(ctx, upd, start)

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultError
	}
	metrics.EmitTransition(s.metrics, metrics.TransitionMetric{
		Status:   string(upd.Status),
		Action:   "report",
		Result:   result,
		Duration: s.clock.Now().Sub(start),
		Err:      err,
	})
	return job, err
}

func (s *ScoringJobService) applyTransition(
	ctx context.Context,
	upd model.JobUpdate,
	now time.Time,
) (*model.ScoringJob, error) {
	if err := upd.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid job update")
	}

	job, err := s.jobs.GetByID(ctx, upd.JobID)
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	if upd.Status != job.Status && !job.Status.CanTransitionTo(upd.Status) {
		return nil, apperrors.Wrapf(
			model.ErrInvalidTransition,
			apperrors.ErrCodeConflict,
			"job %s cannot move %s -> %s", job.ID, job.Status, upd.Status,
		)
	}

	s.stampTimestamps(job, upd.Status, now)
	job.Status = upd.Status
	if upd.CurrentScore != nil {
		job.CurrentScore = upd.CurrentScore
	}

	switch upd.Status {
	case model.JobStatusCompleted:
		job.Score = upd.Score
		job.ErrorMessage = nil
	case model.JobStatusFailed:
		decision, derr := scoring.ResolveFailure(job, upd.ErrorMessage)
		if derr != nil {
			return nil, fmt.Errorf("resolve failure: %w", derr)
		}
		scoring.ApplyRetryDecision(job, decision)
		if s.logger != nil {
			s.logger.InfoContext(ctx, "job failure resolved",
				"job_id", job.ID,
				"action", decision.Action,
				"retry_count", job.RetryCount,
				"max_retries", job.MaxRetries,
			)
		}
	case model.JobStatusCancelled:
		job.ErrorMessage = upd.ErrorMessage
	}

	if err := s.applyTaskUpdates(ctx, job, upd.TaskUpdates, now); err != nil {
		return nil, err
	}

	job.UpdatedAt = now
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	if job.Status.Terminal() {
		if err := s.recomputeSubmission(ctx, job.SubmissionID); err != nil {
			// The job update is already durable; surface but do not roll back.
			return job, fmt.Errorf("recompute submission: %w", err)
		}
	}
	return job, nil
}

// stampTimestamps sets startedAt on the first move out of pending and
// completedAt on terminal states. completedAt is only ever set when the
// status is terminal.
func (s *ScoringJobService) stampTimestamps(job *model.ScoringJob, next model.JobStatus, now time.Time) {
	if job.StartedAt == nil && (next == model.JobStatusAssigned || next == model.JobStatusScoring) {
		started := now
		job.StartedAt = &started
	}
	if next.Terminal() {
		if job.StartedAt == nil {
			started := now
			job.StartedAt = &started
		}
		completed := now
		job.CompletedAt = &completed
	}
}

func (s *ScoringJobService) applyTaskUpdates(
	ctx context.Context,
	job *model.ScoringJob,
	updates []model.TaskUpdate,
	now time.Time,
) error {
	if len(updates) == 0 {
		return nil
	}

	recorded, err := s.tasks.ListByJob(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	byName := make(map[string]*model.ScoringTask, len(recorded))
	for _, t := range recorded {
		byName[t.Name] = t
	}

	for _, tu := range updates {
		if err := tu.Validate(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid task update")
		}

		task := byName[tu.Name]
		if task == nil {
			task = &model.ScoringTask{JobID: job.ID, Name: tu.Name, CreatedAt: now}
		}
		task.Status = tu.Status
		if tu.Score != nil {
			task.Score = tu.Score
		}
		if task.StartedAt == nil && tu.Status != model.TaskStatusNotStarted {
			started := now
			task.StartedAt = &started
		}
		if tu.Status == model.TaskStatusCompleted || tu.Status == model.TaskStatusFailed {
			completed := now
			task.CompletedAt = &completed
		}

		if err := s.tasks.Upsert(ctx, task); err != nil {
			return fmt.Errorf("upsert task %q: %w", tu.Name, err)
		}
	}
	return nil
}

// recomputeSubmission derives the submission's status and aggregate score
// once all of its jobs are terminal, via the external decision policy.
func (s *ScoringJobService) recomputeSubmission(ctx context.Context, submissionID string) error {
	jobs, err := s.jobs.ListBySubmission(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("list submission jobs: %w", err)
	}

	outcomes, done := scoring.TerminalOutcomes(jobs)
	if !done {
		return nil
	}

	params := core.UpdateSubmissionScoringParams{SubmissionID: submissionID}
	if best, ok := scoring.BestCompletedScore(outcomes); ok {
		params.Score = &best
	}

	status, decided := scoring.DeriveSubmissionStatus(jobs, s.decide)
	if decided {
		params.Status = status
	} else {
		params.Status = model.SubmissionPending
	}

	if err := s.submissions.UpdateScoring(ctx, params); err != nil {
		return fmt.Errorf("update submission scoring: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "submission scoring recomputed",
			"submission_id", submissionID,
			"status", params.Status,
			"outcomes", len(outcomes),
		)
	}
	return nil
}

// TerminalOutcomes exposes the set of terminal job outcomes for a submission,
// for callers that map outcomes to decisions. done is false while any job is
// still in flight.
func (s *ScoringJobService) TerminalOutcomes(
	ctx context.Context,
	submissionID string,
) ([]scoring.Outcome, bool, error) {
	jobs, err := s.jobs.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, false, fmt.Errorf("list submission jobs: %w", err)
	}
	outcomes, done := scoring.TerminalOutcomes(jobs)
	return outcomes, done, nil
}

func (s *ScoringJobService) viewerFor(
	ctx context.Context,
	sess auth.Session,
	sub *model.Submission,
) (auth.VisibilityContext, error) {
	owner, err := s.submissions.BountyOwner(ctx, sub.BountyID)
	if err != nil {
		return auth.VisibilityContext{}, fmt.Errorf("resolve bounty owner: %w", err)
	}
	return auth.ViewerContext(sess, owner), nil
}

func (s *ScoringJobService) project(
	ctx context.Context,
	viewer auth.VisibilityContext,
	job *model.ScoringJob,
	sub *model.Submission,
) (*JobProjection, error) {
	defs, err := s.submissions.BountyTasks(ctx, sub.BountyID)
	if err != nil {
		return nil, fmt.Errorf("bounty tasks: %w", err)
	}
	recorded, err := s.tasks.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	names, err := s.submissions.SubmitterNames(ctx, []string{sub.SubmitterID})
	if err != nil {
		return nil, fmt.Errorf("submitter names: %w", err)
	}

	proj := &JobProjection{
		ID:           job.ID,
		SubmissionID: job.SubmissionID,
		ScreenerID:   job.ScreenerID,
		Status:       job.Status,
		DisplayScore: scoring.JobDisplayScore(job),
		ErrorMessage: job.ErrorMessage,
		RetryCount:   job.RetryCount,
		MaxRetries:   job.MaxRetries,
		CreatedAt:    job.CreatedAt,
		StartedAt:    job.StartedAt,
		CompletedAt:  job.CompletedAt,
		Tasks:        model.MergeTasks(defs, recorded, job.ID),
		Submission:   visibility.Render(viewer, sub, names[sub.SubmitterID]),
	}
	if d, ok := job.Duration(s.clock.Now()); ok {
		seconds := d.Seconds()
		proj.DurationSeconds = &seconds
	}
	return proj, nil
}
