// Package scoring holds the pure decision logic of the scoring pipeline:
// the retry/failure policy and score aggregation. It has no I/O.
package scoring

import (
	"errors"

	"github.com/bountylab/scoring-api/internal/domain/model"
)

// ErrRetryCountExceedsMax indicates a job record violates retryCount <= maxRetries.
var ErrRetryCountExceedsMax = errors.New("retry count exceeds max retries")

// FailureAction identifies how a reported failure was resolved.
type FailureAction string

const (
	// FailureActionRetry indicates the job is reset to pending for another attempt.
	FailureActionRetry FailureAction = "retry"
	// FailureActionExhausted indicates retries ran out and the job stays failed.
	FailureActionExhausted FailureAction = "exhausted"
)

// RetryDecision captures the outcome of resolving a reported failure.
type RetryDecision struct {
	Action FailureAction
	// Status is the status the job must move to.
	Status model.JobStatus
	// RetryCount is the job's retry counter after the decision.
	RetryCount int
	// ErrorMessage is the error the job must carry afterwards; nil when the
	// job is being retried.
	ErrorMessage *string
}

// Retried reports whether the job gets another attempt.
func (d RetryDecision) Retried() bool { return d.Action == FailureActionRetry }

// ResolveFailure decides what happens to a job when the screener reports a
// FAILED transition. With retries remaining the job is logically restarted:
// same id, retryCount incremented, status back to pending, error and
// timestamps cleared. With retries exhausted the job stays failed and keeps
// the error for operator display.
func ResolveFailure(job *model.ScoringJob, errMsg *string) (RetryDecision, error) {
	if job.RetryCount > job.MaxRetries {
		return RetryDecision{}, ErrRetryCountExceedsMax
	}

	if job.RetryCount < job.MaxRetries {
		return RetryDecision{
			Action:     FailureActionRetry,
			Status:     model.JobStatusPending,
			RetryCount: job.RetryCount + 1,
		}, nil
	}

	return RetryDecision{
		Action:       FailureActionExhausted,
		Status:       model.JobStatusFailed,
		RetryCount:   job.RetryCount,
		ErrorMessage: errMsg,
	}, nil
}

// ApplyRetryDecision mutates the job in place per the decision. The retry
// branch is the one sanctioned path that moves a job out of a reported
// failure without counting as a backwards transition.
func ApplyRetryDecision(job *model.ScoringJob, d RetryDecision) {
	job.Status = d.Status
	job.RetryCount = d.RetryCount
	job.ErrorMessage = d.ErrorMessage
	if d.Retried() {
		job.StartedAt = nil
		job.CompletedAt = nil
		job.Score = nil
		job.CurrentScore = nil
	}
}
