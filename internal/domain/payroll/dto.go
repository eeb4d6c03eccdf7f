package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/validator"
)

// ProcessOptions tunes a single pipeline invocation.
type ProcessOptions struct {
	// RunID tags the resulting record and its ledger deductions with the
	// batch run that produced them.
	RunID *string
}

// ProcessResult is the structured outcome of ProcessEmployee. Skip
// conditions are valid terminal states, not errors.
type ProcessResult struct {
	Skipped bool
	Reason  string
	Record  *Record
}

// Skip reasons returned to callers.
const (
	SkipReasonNotYetJoined    = "employee joins after this period"
	SkipReasonAlreadyResigned = "employee resigned before this period"
	SkipReasonNoStructure     = "no salary structure available"
)

// RunSummary is the aggregate outcome of a branch payroll run.
type RunSummary struct {
	RunID          string
	BranchID       string
	Month          int
	Year           int
	TotalEmployees int
	Processed      int
	Failed         int
	Skipped        int
	TotalGross     decimal.Decimal
	TotalNet       decimal.Decimal
	FailureReasons map[string]string
}

// ---- HTTP response DTOs ----

type RecordResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	BranchID   string  `json:"branch_id"`
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	RunID      *string `json:"run_id,omitempty"`

	StructureID      string `json:"structure_id"`
	StructureVersion int    `json:"structure_version"`

	WorkingDays     int             `json:"working_days"`
	PayableDays     float64         `json:"payable_days"`
	ProrationFactor decimal.Decimal `json:"proration_factor"`

	FullMonthGross decimal.Decimal `json:"full_month_gross"`
	GrossEarned    decimal.Decimal `json:"gross_earned"`

	AbsentDays    float64         `json:"absent_days"`
	HalfDays      int             `json:"half_days"`
	PenaltyDays   int             `json:"penalty_days"`
	LeaveDaysUsed float64         `json:"leave_days_used"`
	LOPDays       float64         `json:"lop_days"`
	LOPAmount     decimal.Decimal `json:"lop_amount"`

	ArrearsAmount decimal.Decimal `json:"arrears_amount"`

	PFEmployee     decimal.Decimal `json:"pf_employee"`
	PFEmployer     decimal.Decimal `json:"pf_employer"`
	HealthEmployee decimal.Decimal `json:"health_employee"`
	HealthEmployer decimal.Decimal `json:"health_employer"`
	PayrollTax     decimal.Decimal `json:"payroll_tax"`
	IncomeTax      decimal.Decimal `json:"income_tax"`

	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	EmployerCost    decimal.Decimal `json:"employer_cost"`

	Status         Status         `json:"status"`
	CalculationLog map[string]any `json:"calculation_log,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

func NewRecordResponse(rec Record) RecordResponse {
	return RecordResponse{
		ID:               rec.ID,
		EmployeeID:       rec.EmployeeID,
		BranchID:         rec.BranchID,
		Month:            rec.Month,
		Year:             rec.Year,
		RunID:            rec.RunID,
		StructureID:      rec.StructureID,
		StructureVersion: rec.StructureVersion,
		WorkingDays:      rec.WorkingDays,
		PayableDays:      rec.PayableDays,
		ProrationFactor:  rec.ProrationFactor,
		FullMonthGross:   rec.FullMonthGross,
		GrossEarned:      rec.GrossEarned,
		AbsentDays:       rec.AbsentDays,
		HalfDays:         rec.HalfDays,
		PenaltyDays:      rec.PenaltyDays,
		LeaveDaysUsed:    rec.LeaveDaysUsed,
		LOPDays:          rec.LOPDays,
		LOPAmount:        rec.LOPAmount,
		ArrearsAmount:    rec.ArrearsAmount,
		PFEmployee:       rec.PFEmployee,
		PFEmployer:       rec.PFEmployer,
		HealthEmployee:   rec.HealthEmployee,
		HealthEmployer:   rec.HealthEmployer,
		PayrollTax:       rec.PayrollTax,
		IncomeTax:        rec.IncomeTax,
		TotalDeductions:  rec.TotalDeductions,
		NetPay:           rec.NetPay,
		EmployerCost:     rec.EmployerCost,
		Status:           rec.Status,
		CalculationLog:   rec.CalculationLog,
		CreatedAt:        rec.CreatedAt,
	}
}

type RunResponse struct {
	ID             string            `json:"id"`
	BranchID       string            `json:"branch_id"`
	Month          int               `json:"month"`
	Year           int               `json:"year"`
	Status         RunStatus         `json:"status"`
	InitiatedBy    string            `json:"initiated_by"`
	TotalEmployees int               `json:"total_employees"`
	Processed      int               `json:"processed"`
	Failed         int               `json:"failed"`
	Skipped        int               `json:"skipped"`
	TotalGross     decimal.Decimal   `json:"total_gross"`
	TotalNet       decimal.Decimal   `json:"total_net"`
	FailureReasons map[string]string `json:"failure_reasons,omitempty"`
	StartedAt      time.Time         `json:"started_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
}

func NewRunResponse(run Run) RunResponse {
	return RunResponse{
		ID:             run.ID,
		BranchID:       run.BranchID,
		Month:          run.Month,
		Year:           run.Year,
		Status:         run.Status,
		InitiatedBy:    run.InitiatedBy,
		TotalEmployees: run.TotalEmployees,
		Processed:      run.Processed,
		Failed:         run.Failed,
		Skipped:        run.Skipped,
		TotalGross:     run.TotalGross,
		TotalNet:       run.TotalNet,
		FailureReasons: run.FailureReasons,
		StartedAt:      run.StartedAt,
		CompletedAt:    run.CompletedAt,
	}
}

type RunSummaryResponse struct {
	RunID          string            `json:"run_id"`
	BranchID       string            `json:"branch_id"`
	Month          int               `json:"month"`
	Year           int               `json:"year"`
	TotalEmployees int               `json:"total_employees"`
	Processed      int               `json:"processed"`
	Failed         int               `json:"failed"`
	Skipped        int               `json:"skipped"`
	TotalGross     decimal.Decimal   `json:"total_gross"`
	TotalNet       decimal.Decimal   `json:"total_net"`
	FailureReasons map[string]string `json:"failure_reasons,omitempty"`
}

func NewRunSummaryResponse(s RunSummary) RunSummaryResponse {
	return RunSummaryResponse{
		RunID:          s.RunID,
		BranchID:       s.BranchID,
		Month:          s.Month,
		Year:           s.Year,
		TotalEmployees: s.TotalEmployees,
		Processed:      s.Processed,
		Failed:         s.Failed,
		Skipped:        s.Skipped,
		TotalGross:     s.TotalGross,
		TotalNet:       s.TotalNet,
		FailureReasons: s.FailureReasons,
	}
}

// ---- HTTP request DTOs ----

type ProcessEmployeeRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r ProcessEmployeeRequest) Validate() error {
	if errs := validatePeriod(r.Month, r.Year); len(errs) > 0 {
		return errs
	}
	return nil
}

type RunBranchRequest struct {
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	InitiatedBy string `json:"initiated_by"`
}

func (r RunBranchRequest) Validate() error {
	errs := validatePeriod(r.Month, r.Year)
	if validator.IsEmpty(r.InitiatedBy) {
		errs = append(errs, validator.ValidationError{Field: "initiated_by", Message: "Initiated by is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePeriod(month, year int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "Month must be between 1 and 12"})
	}
	if year < 2000 || year > time.Now().Year()+1 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "Year is out of range"})
	}
	return errs
}
