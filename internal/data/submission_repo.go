package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bountylab/scoring-api/internal/core"
	"github.com/bountylab/scoring-api/internal/domain/model"
	apperrors "github.com/bountylab/scoring-api/internal/errors"
)

// SubmissionRepo provides the read/update surface the scoring pipeline needs
// over submissions and their bounties. CRUD beyond status and score belongs to
// the marketplace application.
type SubmissionRepo struct {
	DB *sql.DB
}

// NewSubmissionRepo creates a new SubmissionRepo.
func NewSubmissionRepo(db *sql.DB) *SubmissionRepo {
	return &SubmissionRepo{DB: db}
}

const submissionColumns = `
  id,
  bounty_id,
  submitter_id,
  title,
  description,
  kind,
  urls,
  body,
  files,
  feedback,
  status,
  score,
  is_anonymized,
  created_at,
  updated_at
`

// GetByID retrieves a submission by id.
func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*model.Submission, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE id = $1
	`, id)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("submission %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", apperrors.MapDBError(err))
	}
	return sub, nil
}

// ListByBounty returns all submissions for a bounty, newest first.
func (r *SubmissionRepo) ListByBounty(ctx context.Context, bountyID string) ([]*model.Submission, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE bounty_id = $1
		ORDER BY created_at DESC, id DESC
	`, bountyID)
	if err != nil {
		return nil, fmt.Errorf("list bounty submissions: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var subs []*model.Submission
	for rows.Next() {
		sub, scanErr := scanSubmission(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan submission: %w", scanErr)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}

// UpdateScoring sets the pipeline-owned fields: status and aggregate score.
func (r *SubmissionRepo) UpdateScoring(ctx context.Context, params core.UpdateSubmissionScoringParams) error {
	if params.SubmissionID == "" {
		return errors.New("submission id is required")
	}
	if !params.Status.Valid() {
		return apperrors.Validationf("invalid submission status: %q", params.Status)
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE submissions
		SET status = $2,
		    score = $3,
		    updated_at = now()
		WHERE id = $1
	`, params.SubmissionID, params.Status, params.Score)
	if err != nil {
		return fmt.Errorf("update submission scoring: %w", apperrors.MapDBError(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("submission %s not found", params.SubmissionID)
	}
	return nil
}

// BountyOwner resolves the owner of a bounty.
func (r *SubmissionRepo) BountyOwner(ctx context.Context, bountyID string) (string, error) {
	var owner string
	err := r.DB.QueryRowContext(ctx, `
		SELECT owner_id FROM bounties WHERE id = $1
	`, bountyID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperrors.NotFoundf("bounty %s not found", bountyID)
	}
	if err != nil {
		return "", fmt.Errorf("get bounty owner: %w", apperrors.MapDBError(err))
	}
	return owner, nil
}

// BountyTasks returns the task definitions configured on a bounty in display order.
func (r *SubmissionRepo) BountyTasks(ctx context.Context, bountyID string) ([]model.TaskDefinition, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT name, description
		FROM bounty_tasks
		WHERE bounty_id = $1
		ORDER BY position ASC, name ASC
	`, bountyID)
	if err != nil {
		return nil, fmt.Errorf("list bounty tasks: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var defs []model.TaskDefinition
	for rows.Next() {
		var def model.TaskDefinition
		var description sql.NullString
		if scanErr := rows.Scan(&def.Name, &description); scanErr != nil {
			return nil, fmt.Errorf("scan bounty task: %w", scanErr)
		}
		if description.Valid {
			def.Description = description.String
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bounty tasks: %w", err)
	}
	return defs, nil
}

// SubmitterNames resolves display names for a set of user ids. Unknown ids are
// simply absent from the result map.
func (r *SubmissionRepo) SubmitterNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, display_name
		FROM users
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve submitter names: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if scanErr := rows.Scan(&id, &name); scanErr != nil {
			return nil, fmt.Errorf("scan submitter name: %w", scanErr)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submitter names: %w", err)
	}
	return names, nil
}

func scanSubmission(scanner rowScanner) (*model.Submission, error) {
	sub := &model.Submission{}
	var (
		description    sql.NullString
		urls, files    []byte
		body, feedback sql.NullString
		score          sql.NullFloat64
		isAnonymized   sql.NullBool
	)
	if err := scanner.Scan(
		&sub.ID,
		&sub.BountyID,
		&sub.SubmitterID,
		&sub.Title,
		&description,
		&sub.Kind,
		&urls,
		&body,
		&files,
		&feedback,
		&sub.Status,
		&score,
		&isAnonymized,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		sub.Description = description.String
	}
	if len(urls) > 0 {
		if err := json.Unmarshal(urls, &sub.URLs); err != nil {
			return nil, fmt.Errorf("decode submission urls: %w", err)
		}
	}
	if len(files) > 0 {
		if err := json.Unmarshal(files, &sub.Files); err != nil {
			return nil, fmt.Errorf("decode submission files: %w", err)
		}
	}
	sub.Body = cloneNullableString(body)
	sub.Feedback = cloneNullableString(feedback)
	sub.Score = cloneNullableFloat(score)
	if isAnonymized.Valid {
		v := isAnonymized.Bool
		sub.IsAnonymized = &v
	}
	return sub, nil
}
