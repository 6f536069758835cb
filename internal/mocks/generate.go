// Package mocks contains generated mocks for the core port interfaces.
package mocks

// Generate mock for ScoringJobRepository from the internal/core package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=scoring_job_repository_mock.go github.com/bountylab/scoring-api/internal/core ScoringJobRepository

// Generate mock for ScoringTaskRepository from the internal/core package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=scoring_task_repository_mock.go github.com/bountylab/scoring-api/internal/core ScoringTaskRepository

// Generate mock for SubmissionRepository from the internal/core package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=submission_repository_mock.go github.com/bountylab/scoring-api/internal/core SubmissionRepository

// Generate mock for LogSource from the internal/core package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=log_source_mock.go github.com/bountylab/scoring-api/internal/core LogSource

// Generate mock for ScreenerRegistry from the internal/core package.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=screener_registry_mock.go github.com/bountylab/scoring-api/internal/core ScreenerRegistry
