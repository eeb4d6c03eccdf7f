package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/payroll"
)

type stubRunRepo struct {
	stuck     []payroll.Run
	listErr   error
	lastCall  time.Time
	listCalls int
}

func (s *stubRunRepo) Create(context.Context, payroll.Run) (payroll.Run, error) {
	return payroll.Run{}, nil
}

func (s *stubRunRepo) GetByID(context.Context, string) (payroll.Run, error) {
	return payroll.Run{}, payroll.ErrRunNotFound
}

func (s *stubRunRepo) Complete(context.Context, payroll.Run) error { return nil }

func (s *stubRunRepo) Fail(context.Context, string, string) error { return nil }

func (s *stubRunRepo) SumTotalsForPeriod(context.Context, string, int, int) (payroll.BranchTotals, error) {
	return payroll.BranchTotals{Gross: decimal.Zero, Deductions: decimal.Zero, Net: decimal.Zero}, nil
}

func (s *stubRunRepo) ListStuck(_ context.Context, cutoff time.Time) ([]payroll.Run, error) {
	s.listCalls++
	s.lastCall = cutoff
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.stuck, nil
}

func TestFlagStuckRuns_CutoffFromThreshold(t *testing.T) {
	repo := &stubRunRepo{
		stuck: []payroll.Run{
			{ID: "run-1", BranchID: "b1", Month: 4, Year: 2025, StartedAt: time.Now().Add(-time.Hour)},
		},
	}
	jobs := NewPayrollJobs(repo, 30*time.Minute)

	before := time.Now().Add(-30 * time.Minute)
	require.NoError(t, jobs.FlagStuckRuns(context.Background()))
	after := time.Now().Add(-30 * time.Minute)

	assert.Equal(t, 1, repo.listCalls)
	assert.False(t, repo.lastCall.Before(before))
	assert.False(t, repo.lastCall.After(after))
}

func TestFlagStuckRuns_PropagatesListError(t *testing.T) {
	repo := &stubRunRepo{listErr: errors.New("connection refused")}
	jobs := NewPayrollJobs(repo, 30*time.Minute)

	err := jobs.FlagStuckRuns(context.Background())
	assert.Error(t, err)
}

func TestScheduler_RunOnceExecutesRegisteredJobs(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	ran := 0
	s.AddJob("count", time.Hour, func(context.Context) error {
		ran++
		return nil
	})
	s.RunOnce(context.Background())
	assert.Equal(t, 1, ran)
}

func TestScheduler_RecoversFromPanickingJob(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	s.AddJob("explode", time.Hour, func(context.Context) error {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		s.executeJob(s.jobs[0])
	})
}
