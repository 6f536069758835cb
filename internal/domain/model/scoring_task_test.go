package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeTasks(t *testing.T) {
	defs := []TaskDefinition{
		{Name: "build", Description: "project builds"},
		{Name: "tests", Description: "test suite passes"},
		{Name: "lint", Description: "no lint findings"},
	}

	t.Run("missing records synthesized as not_started", func(t *testing.T) {
		merged := MergeTasks(defs, nil, "job-1")
		require.Len(t, merged, 3)
		for i, def := range defs {
			assert.Equal(t, def.Name, merged[i].Name)
			assert.Equal(t, def.Description, merged[i].Description)
			assert.Equal(t, TaskStatusNotStarted, merged[i].Status)
			assert.Equal(t, "job-1", merged[i].JobID)
		}
	})

	t.Run("recorded tasks win over synthesis", func(t *testing.T) {
		score := 75.0
		recorded := []*ScoringTask{
			{JobID: "job-1", Name: "tests", Status: TaskStatusCompleted, Score: &score},
		}
		merged := MergeTasks(defs, recorded, "job-1")
		require.Len(t, merged, 3)
		assert.Equal(t, TaskStatusNotStarted, merged[0].Status)
		assert.Equal(t, TaskStatusCompleted, merged[1].Status)
		require.NotNil(t, merged[1].Score)
		assert.Equal(t, 75.0, *merged[1].Score)
		assert.Equal(t, TaskStatusNotStarted, merged[2].Status)
	})

	t.Run("orphan records appended sorted", func(t *testing.T) {
		recorded := []*ScoringTask{
			{JobID: "job-1", Name: "zeta", Status: TaskStatusInProgress},
			{JobID: "job-1", Name: "alpha", Status: TaskStatusFailed},
		}
		merged := MergeTasks(defs, recorded, "job-1")
		require.Len(t, merged, 5)
		assert.Equal(t, "alpha", merged[3].Name)
		assert.Equal(t, "zeta", merged[4].Name)
	})

	t.Run("no definitions keeps records only", func(t *testing.T) {
		recorded := []*ScoringTask{{JobID: "job-1", Name: "tests", Status: TaskStatusInProgress}}
		merged := MergeTasks(nil, recorded, "job-1")
		require.Len(t, merged, 1)
		assert.Equal(t, "tests", merged[0].Name)
	})
}

func TestTaskUpdate_Validate(t *testing.T) {
	score := 50.0

	t.Run("valid", func(t *testing.T) {
		u := TaskUpdate{Name: "tests", Status: TaskStatusInProgress}
		require.NoError(t, u.Validate())
	})

	t.Run("missing name", func(t *testing.T) {
		u := TaskUpdate{Status: TaskStatusInProgress}
		require.Error(t, u.Validate())
	})

	t.Run("completed requires score", func(t *testing.T) {
		u := TaskUpdate{Name: "tests", Status: TaskStatusCompleted}
		require.Error(t, u.Validate())

		u.Score = &score
		require.NoError(t, u.Validate())
	})
}
