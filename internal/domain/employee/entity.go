package employee

import (
	"time"
)

type Employee struct {
	ID           string
	BranchID     string
	ShiftID      string
	EmployeeCode string
	FullName     string
	Email        *string
	JoinDate     time.Time
	ExitDate     *time.Time
	// PFOptOut applies only when the PF wage base exceeds the statutory
	// eligibility ceiling; below it membership is mandatory.
	PFOptOut bool
	IsActive bool

	// Legacy display-only counters. The leave ledger is the source of
	// truth; these are never read by the engine.
	AdvisoryLeaveBalance float64

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// ProbationMonths is the fixed probation window measured from the join date.
const ProbationMonths = 6

// PostProbationAt returns the first instant the employee is out of probation.
func (e Employee) PostProbationAt() time.Time {
	return e.JoinDate.AddDate(0, ProbationMonths, 0)
}

// IsPostProbation reports whether the employee is out of probation as of
// the given period end. A period straddling the boundary counts as
// post-probation only when the period end is at or after the boundary.
func (e Employee) IsPostProbation(periodEnd time.Time) bool {
	return !periodEnd.Before(e.PostProbationAt())
}
