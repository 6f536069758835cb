// Package testutil provides testing utilities and helpers for the scoring pipeline.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/bountylab/scoring-api/internal/domain/model"
)

// ScoringJobBuilder provides a fluent interface for building ScoringJob fixtures.
type ScoringJobBuilder struct {
	job *model.ScoringJob
}

// NewScoringJob creates a new ScoringJobBuilder with sensible defaults.
func NewScoringJob() *ScoringJobBuilder {
	now := TestTime()
	return &ScoringJobBuilder{
		job: &model.ScoringJob{
			ID:           uuid.NewString(),
			SubmissionID: uuid.NewString(),
			ScreenerID:   uuid.NewString(),
			Status:       model.JobStatusPending,
			MaxRetries:   3,
			CreatedAt:    now,
			UpdatedAt:    now,
		},
	}
}

// WithID sets the job id.
func (b *ScoringJobBuilder) WithID(id string) *ScoringJobBuilder {
	b.job.ID = id
	return b
}

// WithSubmission sets the submission id.
func (b *ScoringJobBuilder) WithSubmission(submissionID string) *ScoringJobBuilder {
	b.job.SubmissionID = submissionID
	return b
}

// WithScreener sets the screener id.
func (b *ScoringJobBuilder) WithScreener(screenerID string) *ScoringJobBuilder {
	b.job.ScreenerID = screenerID
	return b
}

// WithStatus sets the job status. Forward-only progression is not enforced
// here; fixtures may start in any state.
func (b *ScoringJobBuilder) WithStatus(status model.JobStatus) *ScoringJobBuilder {
	b.job.Status = status
	return b
}

// WithScore sets the terminal score.
func (b *ScoringJobBuilder) WithScore(score float64) *ScoringJobBuilder {
	b.job.Score = &score
	return b
}

// WithCurrentScore sets the in-progress score.
func (b *ScoringJobBuilder) WithCurrentScore(score float64) *ScoringJobBuilder {
	b.job.CurrentScore = &score
	return b
}

// WithError sets the error message.
func (b *ScoringJobBuilder) WithError(message string) *ScoringJobBuilder {
	b.job.ErrorMessage = &message
	return b
}

// WithRetries sets the retry counters.
func (b *ScoringJobBuilder) WithRetries(count, maxRetries int) *ScoringJobBuilder {
	b.job.RetryCount = count
	b.job.MaxRetries = maxRetries
	return b
}

// WithCreatedAt sets the creation timestamp.
func (b *ScoringJobBuilder) WithCreatedAt(t time.Time) *ScoringJobBuilder {
	b.job.CreatedAt = t
	b.job.UpdatedAt = t
	return b
}

// WithStartedAt sets the start timestamp.
func (b *ScoringJobBuilder) WithStartedAt(t time.Time) *ScoringJobBuilder {
	b.job.StartedAt = &t
	return b
}

// WithCompletedAt sets the completion timestamp.
func (b *ScoringJobBuilder) WithCompletedAt(t time.Time) *ScoringJobBuilder {
	b.job.CompletedAt = &t
	return b
}

// WithTask appends a task record to the job.
func (b *ScoringJobBuilder) WithTask(name string, status model.TaskStatus, score *float64) *ScoringJobBuilder {
	b.job.Tasks = append(b.job.Tasks, &model.ScoringTask{
		ID:        uuid.NewString(),
		JobID:     b.job.ID,
		Name:      name,
		Status:    status,
		Score:     score,
		CreatedAt: b.job.CreatedAt,
	})
	return b
}

// Build returns the constructed ScoringJob.
func (b *ScoringJobBuilder) Build() *model.ScoringJob {
	return b.job
}

// SubmissionBuilder provides a fluent interface for building Submission fixtures.
type SubmissionBuilder struct {
	sub *model.Submission
}

// NewSubmission creates a new SubmissionBuilder with sensible defaults.
func NewSubmission() *SubmissionBuilder {
	now := TestTime()
	return &SubmissionBuilder{
		sub: &model.Submission{
			ID:          uuid.NewString(),
			BountyID:    uuid.NewString(),
			SubmitterID: uuid.NewString(),
			Title:       "Example submission",
			Kind:        model.ContentKindURL,
			URLs:        []string{"https://example.com/report"},
			Status:      model.SubmissionPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// WithID sets the submission id.
func (b *SubmissionBuilder) WithID(id string) *SubmissionBuilder {
	b.sub.ID = id
	return b
}

// WithBounty sets the bounty id.
func (b *SubmissionBuilder) WithBounty(bountyID string) *SubmissionBuilder {
	b.sub.BountyID = bountyID
	return b
}

// WithSubmitter sets the submitter id.
func (b *SubmissionBuilder) WithSubmitter(submitterID string) *SubmissionBuilder {
	b.sub.SubmitterID = submitterID
	return b
}

// WithTitle sets the title.
func (b *SubmissionBuilder) WithTitle(title string) *SubmissionBuilder {
	b.sub.Title = title
	return b
}

// WithStatus sets the review status.
func (b *SubmissionBuilder) WithStatus(status model.SubmissionStatus) *SubmissionBuilder {
	b.sub.Status = status
	return b
}

// WithScore sets the submission score.
func (b *SubmissionBuilder) WithScore(score float64) *SubmissionBuilder {
	b.sub.Score = &score
	return b
}

// WithText replaces the content with inline text.
func (b *SubmissionBuilder) WithText(body string) *SubmissionBuilder {
	b.sub.Kind = model.ContentKindText
	b.sub.Body = &body
	b.sub.URLs = nil
	return b
}

// Build returns the constructed Submission.
func (b *SubmissionBuilder) Build() *model.Submission {
	return b.sub
}

// LogEntries builds a run of log entries spaced a second apart starting at
// TestTime. Handy for pagination tests that need a known total ordering.
func LogEntries(count int, taskName string) []model.LogEntry {
	entries := make([]model.LogEntry, 0, count)
	base := TestTime()
	for i := 0; i < count; i++ {
		entries = append(entries, model.LogEntry{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Message:   "log line " + uuid.NewString()[:8],
			TaskName:  taskName,
		})
	}
	return entries
}
