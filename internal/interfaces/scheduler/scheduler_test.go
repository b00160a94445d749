package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/iihf-fantasy/internal/platform/logging"
	"github.com/riskibarqy/iihf-fantasy/internal/usecase"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type jobsMock struct {
	mock.Mock
}

func (m *jobsMock) RunLockSweep(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *jobsMock) RunDailyScoring(ctx context.Context) (usecase.DailyScoringResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(usecase.DailyScoringResult), args.Error(1)
}

func newJobsMock(t *testing.T) *jobsMock {
	t.Helper()
	m := &jobsMock{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func TestNew_RejectsBadSpecs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "lock spec", cfg: Config{LockSpec: "soon", ScoringSpec: "0 * * * *"}},
		{name: "scoring spec", cfg: Config{LockSpec: "*/5 * * * *", ScoringSpec: "0 25 * * *"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(&jobsMock{}, tt.cfg, logging.NewNop()); err == nil {
				t.Fatalf("expected error for %+v", tt.cfg)
			}
		})
	}

	if _, err := New(nil, Config{LockSpec: "*/5 * * * *", ScoringSpec: "0 * * * *"}, nil); err == nil {
		t.Fatalf("expected error without jobs")
	}
}

func TestScheduler_NextRunsAndStop(t *testing.T) {
	t.Parallel()

	s, err := New(newJobsMock(t), Config{LockSpec: "*/5 * * * *", ScoringSpec: "0 * * * *"}, logging.NewNop())
	require.NoError(t, err)

	s.Start()
	s.Start()

	next := s.NextRuns()
	require.Len(t, next, 2)
	for _, at := range next {
		require.False(t, at.IsZero())
		require.Zero(t, at.Second())
	}

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
}

func TestScheduler_RunJobs(t *testing.T) {
	t.Parallel()

	jobs := newJobsMock(t)
	jobs.On("RunLockSweep", mock.Anything).Return(int64(4), nil).Once()
	jobs.On("RunLockSweep", mock.Anything).Return(int64(0), errors.New("db down")).Once()
	jobs.On("RunDailyScoring", mock.MatchedBy(func(ctx context.Context) bool {
		_, hasDeadline := ctx.Deadline()
		return hasDeadline
	})).Return(usecase.DailyScoringResult{
		Locked: 2,
		Days:   []usecase.DayCalculation{{Day: 3, Users: 5}},
	}, nil).Once()

	s, err := New(jobs, Config{LockSpec: "*/5 * * * *", ScoringSpec: "0 * * * *", JobTimeout: time.Minute}, logging.NewNop())
	require.NoError(t, err)

	s.runLockSweep()
	s.runLockSweep()
	s.runDailyScoring()
}
