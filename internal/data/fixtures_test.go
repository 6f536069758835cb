package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// submissionFixture holds the graph of rows a scoring job depends on.
type submissionFixture struct {
	UserID       string
	OwnerID      string
	BountyID     string
	SubmissionID string
	ScreenerID   string
}

// seedSubmission inserts a user, bounty owner, bounty with two task
// definitions, a pending submission, and an active screener.
func seedSubmission(t *testing.T, db *sql.DB) submissionFixture {
	t.Helper()
	ctx := context.Background()

	f := submissionFixture{
		UserID:       uuid.NewString(),
		OwnerID:      uuid.NewString(),
		BountyID:     uuid.NewString(),
		SubmissionID: uuid.NewString(),
		ScreenerID:   uuid.NewString(),
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO users(id, display_name) VALUES ($1, 'alice'), ($2, 'owner')`,
		f.UserID, f.OwnerID)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO bounties(id, owner_id, title) VALUES ($1, $2, 'XSS hunt')`,
		f.BountyID, f.OwnerID)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO bounty_tasks(bounty_id, name, description, position)
		VALUES ($1, 'reproduce', 'Reproduce the finding', 0),
		       ($1, 'impact', 'Assess impact', 1)`,
		f.BountyID)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO submissions(id, bounty_id, submitter_id, title, kind, body)
		VALUES ($1, $2, $3, 'Stored XSS in profile page', 'text', 'steps to reproduce...')`,
		f.SubmissionID, f.BountyID, f.UserID)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		INSERT INTO screeners(id, name, max_concurrent) VALUES ($1, 'screener-alpha', 4)`,
		f.ScreenerID)
	require.NoError(t, err)

	return f
}
