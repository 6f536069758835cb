package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bountylab/scoring-api/internal/domain/model"
)

func TestResolveFailure_RetriesRemaining(t *testing.T) {
	errMsg := "screener crashed"
	job := &model.ScoringJob{ID: "j1", RetryCount: 2, MaxRetries: 3}

	d, err := ResolveFailure(job, &errMsg)
	require.NoError(t, err)

	assert.True(t, d.Retried())
	assert.Equal(t, model.JobStatusPending, d.Status)
	assert.Equal(t, 3, d.RetryCount)
	assert.Nil(t, d.ErrorMessage)
}

func TestResolveFailure_Exhausted(t *testing.T) {
	errMsg := "screener crashed"
	job := &model.ScoringJob{ID: "j1", RetryCount: 3, MaxRetries: 3}

	d, err := ResolveFailure(job, &errMsg)
	require.NoError(t, err)

	assert.False(t, d.Retried())
	assert.Equal(t, model.JobStatusFailed, d.Status)
	assert.Equal(t, 3, d.RetryCount)
	require.NotNil(t, d.ErrorMessage)
	assert.Equal(t, "screener crashed", *d.ErrorMessage)
}

func TestResolveFailure_InvariantViolation(t *testing.T) {
	job := &model.ScoringJob{ID: "j1", RetryCount: 4, MaxRetries: 3}
	_, err := ResolveFailure(job, nil)
	require.ErrorIs(t, err, ErrRetryCountExceedsMax)
}

func TestApplyRetryDecision_Reset(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	completed := time.Now()
	score := 40.0
	errMsg := "boom"

	job := &model.ScoringJob{
		ID:           "j1",
		Status:       model.JobStatusScoring,
		RetryCount:   0,
		MaxRetries:   2,
		StartedAt:    &started,
		CompletedAt:  &completed,
		Score:        &score,
		CurrentScore: &score,
		ErrorMessage: &errMsg,
	}

	d, err := ResolveFailure(job, &errMsg)
	require.NoError(t, err)
	ApplyRetryDecision(job, d)

	// The job is logically restarted: same id, everything transient cleared.
	assert.Equal(t, "j1", job.ID)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.Nil(t, job.ErrorMessage)
	assert.Nil(t, job.StartedAt)
	assert.Nil(t, job.CompletedAt)
	assert.Nil(t, job.Score)
	assert.Nil(t, job.CurrentScore)

	// retryCount <= maxRetries holds after the reset.
	assert.LessOrEqual(t, job.RetryCount, job.MaxRetries)
}

func TestApplyRetryDecision_Exhausted(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	errMsg := "boom"

	job := &model.ScoringJob{
		ID:         "j1",
		Status:     model.JobStatusScoring,
		RetryCount: 2,
		MaxRetries: 2,
		StartedAt:  &started,
	}

	d, err := ResolveFailure(job, &errMsg)
	require.NoError(t, err)
	ApplyRetryDecision(job, d)

	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Equal(t, 2, job.RetryCount)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, "boom", *job.ErrorMessage)
	// Timestamps are retained on a terminal failure.
	assert.NotNil(t, job.StartedAt)
}

func TestRetrySequence_CountNeverExceedsMax(t *testing.T) {
	errMsg := "flaky"
	job := &model.ScoringJob{ID: "j1", MaxRetries: 3}

	// Report failures until the policy stops retrying.
	for i := 0; i < 10; i++ {
		d, err := ResolveFailure(job, &errMsg)
		require.NoError(t, err)
		ApplyRetryDecision(job, d)
		assert.LessOrEqual(t, job.RetryCount, job.MaxRetries)
		if !d.Retried() {
			break
		}
	}

	assert.Equal(t, model.JobStatusFailed, job.Status)
	assert.Equal(t, 3, job.RetryCount)
}
