package screenersync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/bountylab/scoring-api/internal/domain/model"
	"github.com/bountylab/scoring-api/internal/mocks"
)

func TestNewRunner_RequiresRegistry(t *testing.T) {
	_, err := NewRunner(RunnerOptions{})
	require.Error(t, err)

	ctrl := gomock.NewController(t)
	r, err := NewRunner(RunnerOptions{Screeners: mocks.NewMockScreenerRegistry(ctrl)})
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, r.interval)
}

func TestRunner_WarmsOnStartAndEveryTick(t *testing.T) {
	ctrl := gomock.NewController(t)
	screeners := mocks.NewMockScreenerRegistry(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int64
	screeners.EXPECT().List(gomock.Any()).DoAndReturn(
		func(context.Context) ([]*model.Screener, error) {
			if calls.Add(1) >= 3 {
				cancel()
			}
			return []*model.Screener{{ID: "screener-1", Name: "static-analysis"}}, nil
		},
	).AnyTimes()

	r, err := NewRunner(RunnerOptions{Screeners: screeners, Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("warmer did not stop after cancel")
	}

	assert.GreaterOrEqual(t, calls.Load(), int64(3))
}

func TestRunner_ContinuesAfterRefreshFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	screeners := mocks.NewMockScreenerRegistry(ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int64
	screeners.EXPECT().List(gomock.Any()).DoAndReturn(
		func(context.Context) ([]*model.Screener, error) {
			if calls.Add(1) >= 2 {
				cancel()
			}
			return nil, errors.New("redis down")
		},
	).AnyTimes()

	r, err := NewRunner(RunnerOptions{Screeners: screeners, Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("warmer did not stop after cancel")
	}

	assert.GreaterOrEqual(t, calls.Load(), int64(2))
}
