// Package model defines the core data types used throughout the scoring pipeline.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// JobStatus represents the lifecycle state of a scoring job.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobStatus string

const (
	// JobStatusPending indicates a job is created but not yet picked up by a screener.
	JobStatusPending JobStatus = "pending"
	// JobStatusAssigned indicates a screener has claimed the job but emitted no progress yet.
	JobStatusAssigned JobStatus = "assigned"
	// JobStatusScoring indicates task-level updates are being reported.
	JobStatusScoring JobStatus = "scoring"
	// JobStatusCompleted indicates the job finished with a terminal score.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusCancelled indicates the job was cancelled.
	JobStatusCancelled JobStatus = "cancelled"
)

// ErrInvalidTransition is returned when a reported status would move a job backwards.
var ErrInvalidTransition = errors.New("invalid job status transition")

// UnmarshalText implements encoding.TextUnmarshaler so statuses parse from env and JSON strings.
func (s *JobStatus) UnmarshalText(text []byte) error {
	v := JobStatus(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid JobStatus: %q", string(text))
	}
	*s = v
	return nil
}

// Valid returns true if the JobStatus is a known state.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusAssigned, JobStatusScoring,
		JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// Terminal returns true for states that end a job's lifecycle.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// rank orders non-terminal states so transitions can be validated as forward-only.
func (s JobStatus) rank() int {
	switch s {
	case JobStatusPending:
		return 0
	case JobStatusAssigned:
		return 1
	case JobStatusScoring:
		return 2
	default:
		return 3
	}
}

// CanTransitionTo reports whether a reported transition from s to next is legal.
// Transitions are forward-only: a terminal state never moves again, and a
// non-terminal state never moves backwards. The retry-reset and manual-rescore
// paths bypass this check deliberately (see scoring.RetryPolicy).
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s.Terminal() {
		return false
	}
	if next.Terminal() {
		return true
	}
	return next.rank() > s.rank()
}

// ScoringJob represents one grading attempt pairing a submission with a screener.
type ScoringJob struct {
	ID           string     `json:"id"                      db:"id"`
	SubmissionID string     `json:"submission_id"           db:"submission_id"`
	ScreenerID   string     `json:"screener_id"             db:"screener_id"`
	Status       JobStatus  `json:"status"                  db:"status"`
	Score        *float64   `json:"score,omitempty"         db:"score"`
	CurrentScore *float64   `json:"current_score,omitempty" db:"current_score"`
	ErrorMessage *string    `json:"error_message,omitempty" db:"error_message"`
	RetryCount   int        `json:"retry_count"             db:"retry_count"`
	MaxRetries   int        `json:"max_retries"             db:"max_retries"`
	CreatedAt    time.Time  `json:"created_at"              db:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"    db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"  db:"completed_at"`
	UpdatedAt    time.Time  `json:"updated_at"              db:"updated_at"`

	// Tasks is populated on detail reads; nil on list reads.
	Tasks []*ScoringTask `json:"tasks,omitempty" db:"-"`
}

// Duration derives how long a job has been (or was) running. It is a pure
// function of the timestamps and the supplied clock, never stored.
// A job with no start time reports zero and ok=false ("not started").
func (j *ScoringJob) Duration(now time.Time) (time.Duration, bool) {
	if j.StartedAt == nil {
		return 0, false
	}
	if j.CompletedAt != nil {
		return j.CompletedAt.Sub(*j.StartedAt), true
	}
	return now.Sub(*j.StartedAt), true
}

// JobUpdate is the update contract reported by an external screener.
// Transport is out of scope; this is the payload shape the core accepts.
type JobUpdate struct {
	JobID        string       `json:"job_id"`
	Status       JobStatus    `json:"status"`
	Score        *float64     `json:"score,omitempty"`
	CurrentScore *float64     `json:"current_score,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
	TaskUpdates  []TaskUpdate `json:"task_updates,omitempty"`
}

// Validate validates the JobUpdate fields.
func (u *JobUpdate) Validate() error {
	if u.JobID == "" {
		return errors.New("job id is required")
	}
	if !u.Status.Valid() {
		return fmt.Errorf("invalid job status: %q", u.Status)
	}
	if u.Status == JobStatusCompleted && u.Score == nil {
		return errors.New("completed update requires a score")
	}
	return nil
}

// JobListOptions filters the operator job list surface.
type JobListOptions struct {
	SubmissionID string
	ScreenerID   string
	Status       JobStatus
	Limit        int
	Offset       int
}

// JobStats represents counts of jobs per lifecycle state.
type JobStats struct {
	Pending   int `json:"pending"`
	Assigned  int `json:"assigned"`
	Scoring   int `json:"scoring"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`
}
