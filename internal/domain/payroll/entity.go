package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum. History is append-only: reprocessing supersedes the prior
// record, it never mutates or deletes it.
type Status string

const (
	StatusProcessed  Status = "processed"
	StatusFinalized  Status = "finalized"
	StatusSuperseded Status = "superseded"
	StatusFailed     Status = "failed"
)

// Record is one computed payroll result per (employee, month, year).
// Exactly one non-superseded record may exist per period.
type Record struct {
	ID         string
	EmployeeID string
	BranchID   string
	Month      int
	Year       int
	RunID      *string

	StructureID      string
	StructureVersion int

	WorkingDays     int
	PayableDays     float64
	ProrationFactor decimal.Decimal

	FullMonthGross   decimal.Decimal
	BasicEarned      decimal.Decimal
	AllowancesEarned decimal.Decimal
	GrossEarned      decimal.Decimal

	AbsentDays        float64
	HalfDays          int
	LateCount         int
	EarlyCount        int
	AutoCheckoutCount int
	PenaltyDays       int
	LeaveDaysUsed     float64
	LOPDays           float64
	LOPAmount         decimal.Decimal

	ArrearsAmount decimal.Decimal

	PFEmployee     decimal.Decimal
	PFEmployer     decimal.Decimal
	HealthEmployee decimal.Decimal
	HealthEmployer decimal.Decimal
	PayrollTax     decimal.Decimal
	IncomeTax      decimal.Decimal

	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	EmployerCost    decimal.Decimal

	Status Status
	// CalculationLog snapshots every input and intermediate figure so each
	// line of the payslip is independently re-derivable.
	CalculationLog map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RunStatus enum for the branch payroll run lifecycle.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is the per-(branch, month, year) batch record. A run in "running"
// state is the mutual-exclusion gate against a second concurrent batch for
// the same period.
type Run struct {
	ID          string
	BranchID    string
	Month       int
	Year        int
	Status      RunStatus
	InitiatedBy string

	TotalEmployees int
	Processed      int
	Failed         int
	Skipped        int

	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal

	// FailureReasons maps employee ID to the structured reason string.
	FailureReasons map[string]string

	StartedAt   time.Time
	CompletedAt *time.Time
}

// PeriodStart returns the first day of the payroll period in loc.
func PeriodStart(month, year int, loc *time.Location) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
}

// PeriodEnd returns the last day of the payroll period in loc.
func PeriodEnd(month, year int, loc *time.Location) time.Time {
	return PeriodStart(month, year, loc).AddDate(0, 1, 0).AddDate(0, 0, -1)
}
