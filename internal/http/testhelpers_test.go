package httpx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/bountylab/scoring-api/internal/domain/auth"
	"github.com/bountylab/scoring-api/internal/domain/model"
	"github.com/bountylab/scoring-api/internal/mocks"
	"github.com/bountylab/scoring-api/internal/service"
)

type jobHandlerFixture struct {
	handlers    *JobHandlers
	jobs        *mocks.MockScoringJobRepository
	tasks       *mocks.MockScoringTaskRepository
	submissions *mocks.MockSubmissionRepository
}

func newJobHandlerFixture(t *testing.T) *jobHandlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockScoringJobRepository(ctrl)
	tasks := mocks.NewMockScoringTaskRepository(ctrl)
	submissions := mocks.NewMockSubmissionRepository(ctrl)

	svc, err := service.NewScoringJobService(service.ScoringJobServiceOptions{
		Jobs:        jobs,
		Tasks:       tasks,
		Submissions: submissions,
	})
	require.NoError(t, err)

	return &jobHandlerFixture{
		handlers:    &JobHandlers{Svc: svc},
		jobs:        jobs,
		tasks:       tasks,
		submissions: submissions,
	}
}

type logHandlerFixture struct {
	handlers    *LogHandlers
	source      *mocks.MockLogSource
	jobs        *mocks.MockScoringJobRepository
	submissions *mocks.MockSubmissionRepository
}

func newLogHandlerFixture(t *testing.T) *logHandlerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	source := mocks.NewMockLogSource(ctrl)
	jobs := mocks.NewMockScoringJobRepository(ctrl)
	submissions := mocks.NewMockSubmissionRepository(ctrl)

	svc, err := service.NewLogService(service.LogServiceOptions{
		Source:      source,
		Jobs:        jobs,
		Submissions: submissions,
	})
	require.NoError(t, err)

	return &logHandlerFixture{
		handlers:    &LogHandlers{Svc: svc},
		source:      source,
		jobs:        jobs,
		submissions: submissions,
	}
}

// expectJobAccess wires the job -> submission -> bounty owner lookups behind
// the log viewer check.
func (f *logHandlerFixture) expectJobAccess(jobID, submitterID, ownerID string) {
	f.jobs.EXPECT().GetByID(gomock.Any(), jobID).
		Return(&model.ScoringJob{ID: jobID, SubmissionID: "sub-1"}, nil)
	f.submissions.EXPECT().GetByID(gomock.Any(), "sub-1").
		Return(&model.Submission{ID: "sub-1", BountyID: "bounty-1", SubmitterID: submitterID}, nil)
	f.submissions.EXPECT().BountyOwner(gomock.Any(), "bounty-1").
		Return(ownerID, nil)
}

func adminContext(ctx context.Context) context.Context {
	return SetSessionInContext(ctx, domainauth.Session{
		ID:        "sess-admin",
		UserID:    "admin-1",
		Username:  "ops",
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func userContext(ctx context.Context, userID string) context.Context {
	return SetSessionInContext(ctx, domainauth.Session{
		ID:        "sess-" + userID,
		UserID:    userID,
		Username:  userID,
		Role:      domainauth.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	})
}
