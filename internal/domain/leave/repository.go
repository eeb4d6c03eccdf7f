package leave

import "context"

type LedgerRepository interface {
	// Append inserts one immutable entry. The only mutation on the ledger.
	Append(ctx context.Context, entry LedgerEntry) (LedgerEntry, error)
	// Aggregate sums entries by type for an employee and leave type.
	// When excludeRecordID is non-nil, deduction entries referencing that
	// payroll record are left out, so a superseded run's deductions do not
	// double-count against its replacement.
	Aggregate(ctx context.Context, employeeID, leaveType string, excludeRecordID *string) (Balance, error)
	// DeleteByPayrollRecord removes deduction entries referencing a
	// superseded payroll record. The one sanctioned delete.
	DeleteByPayrollRecord(ctx context.Context, payrollRecordID string) error
	// HasEntryWithReason reports whether any entry with the given type and
	// reason exists, used to keep one-time allocations one-time.
	HasEntryWithReason(ctx context.Context, employeeID string, entryType EntryType, reason string) (bool, error)
}
