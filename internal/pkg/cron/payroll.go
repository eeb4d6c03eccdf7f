package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/payroll"
)

// PayrollJobs contains payroll-related cron jobs
type PayrollJobs struct {
	runRepo        payroll.RunRepository
	stuckThreshold time.Duration
}

// NewPayrollJobs creates payroll cron jobs
func NewPayrollJobs(runRepo payroll.RunRepository, stuckThreshold time.Duration) *PayrollJobs {
	return &PayrollJobs{
		runRepo:        runRepo,
		stuckThreshold: stuckThreshold,
	}
}

// RegisterJobs registers all payroll-related cron jobs
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(
		"flag_stuck_payroll_runs",
		5*time.Minute,
		j.FlagStuckRuns,
	)
}

// FlagStuckRuns surfaces runs that have been in running state longer than
// the threshold. A stuck run blocks every future run for its branch and
// period, so it is logged loudly until an operator resolves it.
func (j *PayrollJobs) FlagStuckRuns(ctx context.Context) error {
	cutoff := time.Now().Add(-j.stuckThreshold)

	stuck, err := j.runRepo.ListStuck(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, run := range stuck {
		slog.Error("payroll run appears stuck",
			"run_id", run.ID,
			"branch_id", run.BranchID,
			"month", run.Month,
			"year", run.Year,
			"started_at", run.StartedAt,
			"running_for", time.Since(run.StartedAt).Round(time.Second),
		)
	}

	return nil
}
