package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TaskStatus represents the state of one named sub-evaluation within a job.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type TaskStatus string

const (
	// TaskStatusNotStarted indicates no scoring record exists yet for the task.
	TaskStatusNotStarted TaskStatus = "not_started"
	// TaskStatusInProgress indicates the screener is evaluating the task.
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusCompleted indicates the task finished with a score.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task evaluation failed.
	TaskStatusFailed TaskStatus = "failed"
)

// UnmarshalText implements encoding.TextUnmarshaler for TaskStatus.
func (s *TaskStatus) UnmarshalText(text []byte) error {
	v := TaskStatus(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid TaskStatus: %q", string(text))
	}
	*s = v
	return nil
}

// Valid returns true if the TaskStatus is a known state.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed:
		return true
	}
	return false
}

// TaskDefinition is a named sub-evaluation sourced from the bounty's task list.
type TaskDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ScoringTask is one sub-evaluation record within a scoring job.
type ScoringTask struct {
	ID          string     `json:"id"                     db:"id"`
	JobID       string     `json:"job_id"                 db:"job_id"`
	Name        string     `json:"name"                   db:"name"`
	Description string     `json:"description,omitempty"  db:"description"`
	Status      TaskStatus `json:"status"                 db:"status"`
	Score       *float64   `json:"score,omitempty"        db:"score"`
	CreatedAt   time.Time  `json:"created_at"             db:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"   db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// TaskUpdate is a screener-reported change to one task.
type TaskUpdate struct {
	Name   string     `json:"name"`
	Status TaskStatus `json:"status"`
	Score  *float64   `json:"score,omitempty"`
}

// Validate validates the TaskUpdate fields.
func (u *TaskUpdate) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("task name is required")
	}
	if !u.Status.Valid() {
		return fmt.Errorf("invalid task status: %q", u.Status)
	}
	if u.Status == TaskStatusCompleted && u.Score == nil {
		return fmt.Errorf("completed task %q requires a score", u.Name)
	}
	return nil
}

// MergeTasks unions the bounty's defined tasks with the job's scoring records.
// A definition with no matching record is synthesized as not_started so every
// defined task appears in the display set. Records with no matching definition
// are kept as-is. The result is ordered by definition order, synthesized or
// not, with orphan records appended by name.
func MergeTasks(defs []TaskDefinition, recorded []*ScoringTask, jobID string) []*ScoringTask {
	byName := make(map[string]*ScoringTask, len(recorded))
	for _, t := range recorded {
		byName[t.Name] = t
	}

	merged := make([]*ScoringTask, 0, len(defs)+len(recorded))
	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		seen[def.Name] = true
		if t, ok := byName[def.Name]; ok {
			merged = append(merged, t)
			continue
		}
		merged = append(merged, &ScoringTask{
			JobID:       jobID,
			Name:        def.Name,
			Description: def.Description,
			Status:      TaskStatusNotStarted,
		})
	}

	var orphans []*ScoringTask
	for _, t := range recorded {
		if !seen[t.Name] {
			orphans = append(orphans, t)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Name < orphans[j].Name })

	return append(merged, orphans...)
}
