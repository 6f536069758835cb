package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/bountylab/scoring-api/internal/domain/model"
	apperrors "github.com/bountylab/scoring-api/internal/errors"
)

// ScoringTaskRepo provides database operations for per-job task records.
type ScoringTaskRepo struct {
	DB *sql.DB
}

// NewScoringTaskRepo creates a new ScoringTaskRepo.
func NewScoringTaskRepo(db *sql.DB) *ScoringTaskRepo {
	return &ScoringTaskRepo{DB: db}
}

const scoringTaskColumns = `
  id,
  job_id,
  name,
  description,
  status,
  score,
  created_at,
  started_at,
  completed_at
`

// ListByJob returns the task records of one job in creation order.
func (r *ScoringTaskRepo) ListByJob(ctx context.Context, jobID string) ([]*model.ScoringTask, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+scoringTaskColumns+`
		FROM scoring_tasks
		WHERE job_id = $1
		ORDER BY created_at ASC, name ASC
	`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list scoring tasks: %w", apperrors.MapDBError(err))
	}
	defer rows.Close()

	var tasks []*model.ScoringTask
	for rows.Next() {
		task, scanErr := scanScoringTask(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan scoring task: %w", scanErr)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scoring tasks: %w", err)
	}
	return tasks, nil
}

// Upsert inserts or updates a task record keyed on (job_id, name).
func (r *ScoringTaskRepo) Upsert(ctx context.Context, task *model.ScoringTask) error {
	if task == nil || task.JobID == "" || task.Name == "" {
		return errors.New("task with job id and name is required")
	}

	id := task.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO scoring_tasks(id, job_id, name, description, status, score, created_at, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (job_id, name) DO UPDATE
		SET status = EXCLUDED.status,
		    score = EXCLUDED.score,
		    started_at = COALESCE(scoring_tasks.started_at, EXCLUDED.started_at),
		    completed_at = EXCLUDED.completed_at
	`,
		id,
		task.JobID,
		task.Name,
		task.Description,
		task.Status,
		task.Score,
		task.CreatedAt.UTC(),
		nullableTime(task.StartedAt),
		nullableTime(task.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert scoring task: %w", apperrors.MapDBError(err))
	}
	return nil
}

func scanScoringTask(scanner rowScanner) (*model.ScoringTask, error) {
	task := &model.ScoringTask{}
	var (
		description            sql.NullString
		score                  sql.NullFloat64
		startedAt, completedAt sql.NullTime
	)
	if err := scanner.Scan(
		&task.ID,
		&task.JobID,
		&task.Name,
		&description,
		&task.Status,
		&score,
		&task.CreatedAt,
		&startedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = description.String
	}
	task.Score = cloneNullableFloat(score)
	task.StartedAt = cloneNullableTime(startedAt)
	task.CompletedAt = cloneNullableTime(completedAt)
	return task, nil
}
