package service

import (
	"context"
	"fmt"

	"github.com/bountylab/scoring-api/internal/core"
	"github.com/bountylab/scoring-api/internal/domain/auth"
	"github.com/bountylab/scoring-api/internal/domain/model"
	apperrors "github.com/bountylab/scoring-api/internal/errors"
)

// Rescore creates a fresh scoring job set for the submission and resets its
// status to pending. Admin only. This is distinct from the automatic retry
// path: prior jobs stay untouched for audit, but the decision restarts from
// scratch. Returns the newly created jobs.
func (s *ScoringJobService) Rescore(
	ctx context.Context,
	sess auth.Session,
	submissionID string,
) ([]*model.ScoringJob, error) {
	if !sess.IsAdmin() {
		return nil, apperrors.Forbidden("rescore requires admin")
	}

	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	prior, err := s.jobs.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list prior jobs: %w", err)
	}
	if len(prior) == 0 {
		return nil, apperrors.Validation("submission has no scoring history to rescore")
	}

	defs, err := s.submissions.BountyTasks(ctx, sub.BountyID)
	if err != nil {
		return nil, fmt.Errorf("bounty tasks: %w", err)
	}

	// One fresh job per screener that participated in the prior set. Job
	// pickup stays with the external assignment process.
	maxRetries := prior[0].MaxRetries
	created := make([]*model.ScoringJob, 0, len(prior))
	for _, screenerID := range distinctScreeners(prior) {
		job, cerr := s.jobs.Create(ctx, &core.CreateJobParams{
			SubmissionID: submissionID,
			ScreenerID:   screenerID,
			MaxRetries:   maxRetries,
			Tasks:        defs,
		})
		if cerr != nil {
			return nil, fmt.Errorf("create rescore job: %w", cerr)
		}
		created = append(created, job)
	}

	err = s.submissions.UpdateScoring(ctx, core.UpdateSubmissionScoringParams{
		SubmissionID: submissionID,
		Status:       model.SubmissionPending,
	})
	if err != nil {
		return nil, fmt.Errorf("reset submission: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "submission rescored",
			"submission_id", submissionID,
			"jobs_created", len(created),
			"requested_by", sess.UserID,
		)
	}
	return created, nil
}

// distinctScreeners returns the screener ids of the job set, first-seen order.
func distinctScreeners(jobs []*model.ScoringJob) []string {
	seen := make(map[string]bool, len(jobs))
	var ids []string
	for _, j := range jobs {
		if j.ScreenerID == "" || seen[j.ScreenerID] {
			continue
		}
		seen[j.ScreenerID] = true
		ids = append(ids, j.ScreenerID)
	}
	return ids
}
