package leave

import "time"

// EntryType enum
type EntryType string

const (
	EntryTypeAllocation EntryType = "allocation"
	EntryTypeDeduction  EntryType = "deduction"
	EntryTypeCorrection EntryType = "correction"
	EntryTypeReversion  EntryType = "reversion"
)

// Well-known entry reasons the engine writes.
const (
	ReasonProbationAllocation = "post_probation_initial_allocation"
	ReasonAttendanceDeduction = "attendance_day_deduction"
	ReasonPenaltyDeduction    = "violation_penalty_deduction"
)

// ProbationAllocationDays is the one-time grant appended on the first
// post-probation payroll period.
const ProbationAllocationDays = 18.0

// LedgerEntry is an immutable row in the leave ledger. Entries are never
// updated; corrections are new rows. The only sanctioned delete is the
// cleanup of deduction entries referencing a superseded payroll record.
type LedgerEntry struct {
	ID         string
	EmployeeID string
	Type       EntryType
	LeaveType  string
	// Days may be fractional, e.g. 0.5 for a half day.
	Days   float64
	Reason string
	// PayrollRecordID ties deduction entries to the payroll record that
	// caused them; at most one deduction per (record, leave type).
	PayrollRecordID *string
	CreatedAt       time.Time
}

// LeaveTypeEarned is the single leave type the engine draws from.
const LeaveTypeEarned = "earned"

// Balance aggregates entry totals; it is always derived, never cached.
type Balance struct {
	Allocations float64
	Corrections float64
	Deductions  float64
	Reversions  float64
}

// Days returns the net balance, clamped at zero so a negative historical
// balance never inflates loss-of-pay in a later run.
func (b Balance) Days() float64 {
	d := b.Allocations + b.Corrections - b.Deductions - b.Reversions
	if d < 0 {
		return 0
	}
	return d
}
