package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/paygrid-hr/payroll-backend-go/internal/service/notification"
)

// RunBranchPayroll processes every active employee of a branch for the
// period. Employees are processed in fixed-size chunks of concurrent
// workers; a failure is recorded against the employee and never aborts the
// batch. The run row itself is the mutual-exclusion gate: creating a second
// running run for the same (branch, month, year) fails with
// ErrRunAlreadyActive.
func (s *Service) RunBranchPayroll(ctx context.Context, branchID string, month, year int, initiatedBy string) (payroll.RunSummary, error) {
	var summary payroll.RunSummary

	if err := (payroll.RunBranchRequest{Month: month, Year: year, InitiatedBy: initiatedBy}).Validate(); err != nil {
		return summary, err
	}

	br, err := s.branches.GetByID(ctx, branchID)
	if err != nil {
		return summary, fmt.Errorf("failed to get branch: %w", err)
	}

	employees, err := s.employees.GetActiveByBranchID(ctx, branchID)
	if err != nil {
		return summary, fmt.Errorf("failed to list branch employees: %w", err)
	}

	run, err := s.runs.Create(ctx, payroll.Run{
		BranchID:       branchID,
		Month:          month,
		Year:           year,
		Status:         payroll.RunStatusRunning,
		InitiatedBy:    initiatedBy,
		TotalEmployees: len(employees),
	})
	if err != nil {
		return summary, err
	}

	var (
		mu             sync.Mutex
		processed      int
		skipped        int
		failed         int
		failureReasons = make(map[string]string)
	)

	for start := 0; start < len(employees); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(employees) {
			end = len(employees)
		}

		var wg sync.WaitGroup
		for _, emp := range employees[start:end] {
			wg.Add(1)
			go func(employeeID string) {
				defer wg.Done()

				empCtx, cancel := context.WithTimeout(ctx, s.employeeTimeout)
				defer cancel()

				res, err := s.ProcessEmployee(empCtx, employeeID, month, year, payroll.ProcessOptions{RunID: &run.ID})

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err != nil:
					failed++
					failureReasons[employeeID] = err.Error()
					slog.Error("payroll pipeline failed for employee",
						"run_id", run.ID,
						"employee_id", employeeID,
						"error", err,
					)
				case res.Skipped:
					skipped++
					failureReasons[employeeID] = res.Reason
				default:
					processed++
				}
			}(emp.ID)
		}
		wg.Wait()

		if ctx.Err() != nil {
			break
		}
	}

	if err := ctx.Err(); err != nil {
		reason := fmt.Sprintf("run aborted: %v", err)
		if ferr := s.runs.Fail(ctx, run.ID, reason); ferr != nil {
			slog.Error("failed to mark run failed", "run_id", run.ID, "error", ferr)
		}
		return summary, fmt.Errorf("branch payroll run aborted: %w", err)
	}

	// Totals are recomputed from the period's non-superseded records, not
	// accumulated incrementally, so partial reprocessing cannot drift them.
	totals, err := s.runs.SumTotalsForPeriod(ctx, branchID, month, year)
	if err != nil {
		if ferr := s.runs.Fail(ctx, run.ID, err.Error()); ferr != nil {
			slog.Error("failed to mark run failed", "run_id", run.ID, "error", ferr)
		}
		return summary, fmt.Errorf("failed to recompute run totals: %w", err)
	}

	run.Processed = processed
	run.Skipped = skipped
	run.Failed = failed
	run.FailureReasons = failureReasons
	run.TotalGross = totals.Gross
	run.TotalDeductions = totals.Deductions
	run.TotalNet = totals.Net
	if err := s.runs.Complete(ctx, run); err != nil {
		return summary, fmt.Errorf("failed to complete run: %w", err)
	}

	// Notification is fire-and-forget; a delivery failure never fails a
	// completed run.
	event := notification.RunCompletedEvent{
		RunID:       run.ID,
		BranchID:    branchID,
		BranchName:  br.Name,
		Month:       month,
		Year:        year,
		Processed:   processed,
		Skipped:     skipped,
		Failed:      failed,
		TotalGross:  totals.Gross,
		TotalNetPay: totals.Net,
	}
	go func() {
		if err := s.notifier.NotifyRunCompleted(context.Background(), event); err != nil {
			slog.Error("run completion notification failed", "run_id", run.ID, "error", err)
		}
	}()

	return payroll.RunSummary{
		RunID:          run.ID,
		BranchID:       branchID,
		Month:          month,
		Year:           year,
		TotalEmployees: len(employees),
		Processed:      processed,
		Failed:         failed,
		Skipped:        skipped,
		TotalGross:     totals.Gross,
		TotalNet:       totals.Net,
		FailureReasons: failureReasons,
	}, nil
}
