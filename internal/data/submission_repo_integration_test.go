package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bountylab/scoring-api/internal/core"
	"github.com/bountylab/scoring-api/internal/domain/model"
	apperrors "github.com/bountylab/scoring-api/internal/errors"
	"github.com/bountylab/scoring-api/internal/testutil"
)

func TestSubmissionRepo_Integration_GetByID(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		f := seedSubmission(t, db)
		repo := NewSubmissionRepo(db)

		sub, err := repo.GetByID(context.Background(), f.SubmissionID)
		require.NoError(t, err)
		assert.Equal(t, "Stored XSS in profile page", sub.Title)
		assert.Equal(t, model.ContentKindText, sub.Kind)
		assert.Equal(t, model.SubmissionPending, sub.Status)
		assert.Nil(t, sub.Score)

		_, err = repo.GetByID(context.Background(), "no-such-submission")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestSubmissionRepo_Integration_UpdateScoring(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		f := seedSubmission(t, db)
		repo := NewSubmissionRepo(db)
		score := 62.5

		err := repo.UpdateScoring(context.Background(), core.UpdateSubmissionScoringParams{
			SubmissionID: f.SubmissionID,
			Status:       model.SubmissionApproved,
			Score:        &score,
		})
		require.NoError(t, err)

		sub, err := repo.GetByID(context.Background(), f.SubmissionID)
		require.NoError(t, err)
		assert.Equal(t, model.SubmissionApproved, sub.Status)
		require.NotNil(t, sub.Score)
		assert.InDelta(t, 62.5, *sub.Score, 0.0001)
	})
}

func TestSubmissionRepo_Integration_UpdateScoringValidation(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		f := seedSubmission(t, db)
		repo := NewSubmissionRepo(db)

		err := repo.UpdateScoring(context.Background(), core.UpdateSubmissionScoringParams{
			SubmissionID: f.SubmissionID,
			Status:       "bogus",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))

		err = repo.UpdateScoring(context.Background(), core.UpdateSubmissionScoringParams{
			SubmissionID: "no-such-submission",
			Status:       model.SubmissionApproved,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestSubmissionRepo_Integration_BountyOwnerAndTasks(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		f := seedSubmission(t, db)
		repo := NewSubmissionRepo(db)

		owner, err := repo.BountyOwner(context.Background(), f.BountyID)
		require.NoError(t, err)
		assert.Equal(t, f.OwnerID, owner)

		tasks, err := repo.BountyTasks(context.Background(), f.BountyID)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		// Position order, not alphabetical.
		assert.Equal(t, "reproduce", tasks[0].Name)
		assert.Equal(t, "impact", tasks[1].Name)
	})
}

func TestSubmissionRepo_Integration_SubmitterNames(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		f := seedSubmission(t, db)
		repo := NewSubmissionRepo(db)

		names, err := repo.SubmitterNames(context.Background(), []string{f.UserID, "unknown-user"})
		require.NoError(t, err)
		require.Len(t, names, 1)
		assert.Equal(t, "alice", names[f.UserID])

		empty, err := repo.SubmitterNames(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
