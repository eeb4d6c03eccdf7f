package leave

import (
	"context"
	"fmt"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/leave"
)

// LedgerService fronts the append-only leave ledger. Balance is always
// derived by aggregation; the legacy counters on the employee record are
// display-only and never consulted here.
type LedgerService struct {
	repo leave.LedgerRepository
}

func NewLedgerService(repo leave.LedgerRepository) *LedgerService {
	return &LedgerService{repo: repo}
}

// Append writes one immutable entry.
func (s *LedgerService) Append(ctx context.Context, entry leave.LedgerEntry) (leave.LedgerEntry, error) {
	if entry.Days <= 0 {
		return leave.LedgerEntry{}, leave.ErrInvalidEntryDays
	}
	if entry.LeaveType == "" {
		entry.LeaveType = leave.LeaveTypeEarned
	}
	return s.repo.Append(ctx, entry)
}

// Balance aggregates the employee's earned-leave entries. When
// excludeRecordID is set, deductions tied to that payroll record are left
// out so a superseded run cannot double-count against its replacement.
// Negative balances clamp to zero.
func (s *LedgerService) Balance(ctx context.Context, employeeID string, excludeRecordID *string) (float64, error) {
	b, err := s.repo.Aggregate(ctx, employeeID, leave.LeaveTypeEarned, excludeRecordID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute leave balance: %w", err)
	}
	return b.Days(), nil
}

// PurgeForRecord removes the deduction entries a superseded payroll record
// produced. Called only as part of the supersede step of reprocessing.
func (s *LedgerService) PurgeForRecord(ctx context.Context, payrollRecordID string) error {
	return s.repo.DeleteByPayrollRecord(ctx, payrollRecordID)
}

// EnsureProbationAllocation appends the one-time post-probation grant if it
// has not been written yet. Returns true when this call created it.
func (s *LedgerService) EnsureProbationAllocation(ctx context.Context, employeeID string) (bool, error) {
	exists, err := s.repo.HasEntryWithReason(ctx, employeeID, leave.EntryTypeAllocation, leave.ReasonProbationAllocation)
	if err != nil {
		return false, fmt.Errorf("failed to check probation allocation: %w", err)
	}
	if exists {
		return false, nil
	}

	_, err = s.repo.Append(ctx, leave.LedgerEntry{
		EmployeeID: employeeID,
		Type:       leave.EntryTypeAllocation,
		LeaveType:  leave.LeaveTypeEarned,
		Days:       leave.ProbationAllocationDays,
		Reason:     leave.ReasonProbationAllocation,
	})
	if err != nil {
		return false, fmt.Errorf("failed to append probation allocation: %w", err)
	}

	return true, nil
}
