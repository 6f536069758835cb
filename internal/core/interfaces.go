// Package core defines the ports between the scoring services and their
// collaborators (persistence, the external log source, the screener registry).
// Services depend on these interfaces, never on concrete implementations.
package core

import (
	"context"
	"time"

	"github.com/bountylab/scoring-api/internal/domain/model"
)

// ScoringJobRepository defines persistence operations for scoring jobs.
type ScoringJobRepository interface {
	Create(ctx context.Context, req *CreateJobParams) (*model.ScoringJob, error)
	GetByID(ctx context.Context, id string) (*model.ScoringJob, error)
	ListBySubmission(ctx context.Context, submissionID string) ([]*model.ScoringJob, error)
	List(ctx context.Context, opts *model.JobListOptions) ([]*model.ScoringJob, error)
	Update(ctx context.Context, job *model.ScoringJob) error
	Stats(ctx context.Context) (*model.JobStats, error)
}

// CreateJobParams groups parameters for job creation to keep param count low.
type CreateJobParams struct {
	SubmissionID string
	ScreenerID   string
	MaxRetries   int
	Tasks        []model.TaskDefinition
}

// ScoringTaskRepository defines persistence operations for per-job tasks.
type ScoringTaskRepository interface {
	ListByJob(ctx context.Context, jobID string) ([]*model.ScoringTask, error)
	Upsert(ctx context.Context, task *model.ScoringTask) error
}

// SubmissionRepository defines the read/update surface the pipeline needs.
// Full submission CRUD belongs to the marketplace application, not this core.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (*model.Submission, error)
	ListByBounty(ctx context.Context, bountyID string) ([]*model.Submission, error)
	// UpdateScoring sets the pipeline-owned fields: status and aggregate score.
	UpdateScoring(ctx context.Context, params UpdateSubmissionScoringParams) error
	// BountyOwner resolves the owner of the submission's bounty.
	BountyOwner(ctx context.Context, bountyID string) (string, error)
	// BountyTasks returns the task definitions configured on the bounty.
	BountyTasks(ctx context.Context, bountyID string) ([]model.TaskDefinition, error)
	// SubmitterNames resolves display names for a set of submitter ids.
	SubmitterNames(ctx context.Context, ids []string) (map[string]string, error)
}

// UpdateSubmissionScoringParams groups parameters for UpdateScoring.
type UpdateSubmissionScoringParams struct {
	SubmissionID string
	Status       model.SubmissionStatus
	Score        *float64
}

// LogSource is the external append-only log store, keyed by job id.
// Entries are immutable; ordering key is the timestamp.
type LogSource interface {
	List(ctx context.Context, q model.LogQuery) ([]model.LogEntry, error)
}

// ScreenerRegistry is the read-only registry of grading workers.
type ScreenerRegistry interface {
	List(ctx context.Context) ([]*model.Screener, error)
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }
