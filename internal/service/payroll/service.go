package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/branch"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/employee"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/leave"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/salary"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/statutory"
	"github.com/paygrid-hr/payroll-backend-go/internal/repository/postgresql"
	attendancesvc "github.com/paygrid-hr/payroll-backend-go/internal/service/attendance"
	leavesvc "github.com/paygrid-hr/payroll-backend-go/internal/service/leave"
	"github.com/paygrid-hr/payroll-backend-go/internal/service/notification"
	statutorysvc "github.com/paygrid-hr/payroll-backend-go/internal/service/statutory"
)

// Service computes monthly payroll. ProcessEmployee is the single-employee
// pipeline; RunBranchPayroll fans it out over a branch.
type Service struct {
	tx postgresql.TxRunner

	employees   employee.EmployeeRepository
	branches    branch.BranchRepository
	holidays    branch.HolidayRepository
	attendances attendance.AttendanceRepository
	structures  salary.StructureRepository
	records     payroll.RecordRepository
	runs        payroll.RunRepository
	statRecords statutory.RecordRepository

	ledger     *leavesvc.LedgerService
	translator *attendancesvc.Translator
	provider   *statutorysvc.ConfigProvider
	pf         *statutorysvc.ProvidentFundCalculator
	health     *statutorysvc.HealthContributionCalculator
	payrollTax *statutorysvc.PayrollTaxCalculator
	incomeTax  *statutorysvc.IncomeTaxCalculator
	arrears    *ArrearsDetector
	notifier   notification.Notifier

	chunkSize       int
	employeeTimeout time.Duration

	// now is swapped in tests to pin the elapsed-day cutoff.
	now func() time.Time
}

type ServiceDeps struct {
	Tx postgresql.TxRunner

	Employees   employee.EmployeeRepository
	Branches    branch.BranchRepository
	Holidays    branch.HolidayRepository
	Attendances attendance.AttendanceRepository
	Structures  salary.StructureRepository
	Records     payroll.RecordRepository
	Runs        payroll.RunRepository
	StatRecords statutory.RecordRepository

	Ledger     *leavesvc.LedgerService
	Translator *attendancesvc.Translator
	Provider   *statutorysvc.ConfigProvider
	PF         *statutorysvc.ProvidentFundCalculator
	Health     *statutorysvc.HealthContributionCalculator
	PayrollTax *statutorysvc.PayrollTaxCalculator
	IncomeTax  *statutorysvc.IncomeTaxCalculator
	Arrears    *ArrearsDetector
	Notifier   notification.Notifier

	ChunkSize       int
	EmployeeTimeout time.Duration
}

func NewService(deps ServiceDeps) *Service {
	if deps.ChunkSize < 1 {
		deps.ChunkSize = 10
	}
	if deps.EmployeeTimeout <= 0 {
		deps.EmployeeTimeout = 30 * time.Second
	}
	if deps.Notifier == nil {
		deps.Notifier = notification.NewNoopNotifier()
	}
	return &Service{
		tx:              deps.Tx,
		employees:       deps.Employees,
		branches:        deps.Branches,
		holidays:        deps.Holidays,
		attendances:     deps.Attendances,
		structures:      deps.Structures,
		records:         deps.Records,
		runs:            deps.Runs,
		statRecords:     deps.StatRecords,
		ledger:          deps.Ledger,
		translator:      deps.Translator,
		provider:        deps.Provider,
		pf:              deps.PF,
		health:          deps.Health,
		payrollTax:      deps.PayrollTax,
		incomeTax:       deps.IncomeTax,
		arrears:         deps.Arrears,
		notifier:        deps.Notifier,
		chunkSize:       deps.ChunkSize,
		employeeTimeout: deps.EmployeeTimeout,
		now:             time.Now,
	}
}

// GetRecord returns a payroll record by ID.
func (s *Service) GetRecord(ctx context.Context, id string) (payroll.Record, error) {
	return s.records.GetByID(ctx, id)
}

// GetRun returns a payroll run by ID.
func (s *Service) GetRun(ctx context.Context, id string) (payroll.Run, error) {
	return s.runs.GetByID(ctx, id)
}

// ListBranchRecords returns all records for a (branch, month, year),
// superseded ones included.
func (s *Service) ListBranchRecords(ctx context.Context, branchID string, month, year int) ([]payroll.Record, error) {
	if err := (payroll.ProcessEmployeeRequest{Month: month, Year: year}).Validate(); err != nil {
		return nil, err
	}
	return s.records.ListByBranchPeriod(ctx, branchID, month, year)
}

// ProcessEmployee runs the full pipeline for one (employee, month, year).
// Reprocessing supersedes the prior active record and rebuilds everything
// derived from it inside one transaction.
func (s *Service) ProcessEmployee(ctx context.Context, employeeID string, month, year int, opts payroll.ProcessOptions) (payroll.ProcessResult, error) {
	var result payroll.ProcessResult

	if err := (payroll.ProcessEmployeeRequest{Month: month, Year: year}).Validate(); err != nil {
		return result, err
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return result, err
	}
	if emp.BranchID == "" {
		return result, employee.ErrEmployeeNoBranch
	}

	br, err := s.branches.GetByID(ctx, emp.BranchID)
	if err != nil {
		return result, fmt.Errorf("failed to get branch: %w", err)
	}
	loc := br.Location()
	periodStart := payroll.PeriodStart(month, year, loc)
	periodEnd := payroll.PeriodEnd(month, year, loc)

	if emp.JoinDate.After(periodEnd) {
		return payroll.ProcessResult{Skipped: true, Reason: payroll.SkipReasonNotYetJoined}, nil
	}
	if emp.ExitDate != nil && emp.ExitDate.Before(periodStart) {
		return payroll.ProcessResult{Skipped: true, Reason: payroll.SkipReasonAlreadyResigned}, nil
	}

	st, err := s.structures.GetEffectiveForPeriod(ctx, emp.ID, periodEnd)
	if errors.Is(err, salary.ErrStructureNotFound) {
		// New hires may have their first structure dated after the period
		// end; fall back to the earliest version.
		st, err = s.structures.GetEarliest(ctx, emp.ID)
		if errors.Is(err, salary.ErrStructureNotFound) {
			return payroll.ProcessResult{Skipped: true, Reason: payroll.SkipReasonNoStructure}, nil
		}
	}
	if err != nil {
		return result, fmt.Errorf("failed to get salary structure: %w", err)
	}

	var shift branch.Shift
	if emp.ShiftID != "" {
		shift, err = s.branches.GetShiftByID(ctx, emp.ShiftID)
		if err != nil {
			return result, fmt.Errorf("failed to get shift: %w", err)
		}
	}

	holidays, err := s.holidays.ListForPeriod(ctx, emp.BranchID, periodStart, periodEnd)
	if err != nil {
		return result, fmt.Errorf("failed to list holidays: %w", err)
	}

	days, err := s.attendances.ListForPeriod(ctx, emp.ID, periodStart, periodEnd)
	if err != nil {
		return result, fmt.Errorf("failed to list attendance: %w", err)
	}

	cfg, cfgSource := s.provider.Get(ctx)

	err = s.tx.Run(ctx, func(ctx context.Context) error {
		rec, err := s.computeAndPersist(ctx, emp, br, shift, st, holidays, days, cfg, cfgSource, month, year, periodStart, periodEnd, opts)
		if err != nil {
			return err
		}
		result = payroll.ProcessResult{Record: &rec}
		return nil
	})
	if err != nil {
		return payroll.ProcessResult{}, err
	}
	return result, nil
}

func (s *Service) computeAndPersist(
	ctx context.Context,
	emp employee.Employee,
	br branch.Branch,
	shift branch.Shift,
	st salary.Structure,
	holidays []branch.Holiday,
	days []attendance.DayRecord,
	cfg statutory.Config,
	cfgSource statutory.ConfigSource,
	month, year int,
	periodStart, periodEnd time.Time,
	opts payroll.ProcessOptions,
) (payroll.Record, error) {
	var zero payroll.Record

	// Supersede the prior active record and purge the ledger deductions it
	// produced, so the rebuild starts from the pre-run balance.
	var excludeRecordID *string
	existing, err := s.records.GetActiveByPeriod(ctx, emp.ID, month, year)
	switch {
	case err == nil:
		if err := s.records.Supersede(ctx, existing.ID); err != nil {
			return zero, fmt.Errorf("failed to supersede prior record: %w", err)
		}
		if err := s.ledger.PurgeForRecord(ctx, existing.ID); err != nil {
			return zero, fmt.Errorf("failed to purge prior ledger deductions: %w", err)
		}
		id := existing.ID
		excludeRecordID = &id
	case errors.Is(err, payroll.ErrRecordNotFound):
	default:
		return zero, fmt.Errorf("failed to check active record: %w", err)
	}

	if emp.IsPostProbation(periodEnd) {
		if _, err := s.ledger.EnsureProbationAllocation(ctx, emp.ID); err != nil {
			return zero, fmt.Errorf("failed to ensure probation allocation: %w", err)
		}
	}

	balance, err := s.ledger.Balance(ctx, emp.ID, excludeRecordID)
	if err != nil {
		return zero, fmt.Errorf("failed to get leave balance: %w", err)
	}

	tr := s.translator.Translate(attendancesvc.Input{
		Employee:       emp,
		Month:          month,
		Year:           year,
		Branch:         br,
		Shift:          shift,
		Holidays:       holidays,
		Days:           days,
		AvailableLeave: balance,
		Now:            s.now(),
	})
	if tr.WorkingDays == 0 {
		return zero, fmt.Errorf("%w: no working days in %04d-%02d", payroll.ErrInvalidPeriod, year, month)
	}

	arr, err := s.arrears.Detect(ctx, emp.ID, st, month, year)
	if err != nil {
		return zero, err
	}

	workingDays := decimal.NewFromInt(int64(tr.WorkingDays))
	proration := decimal.NewFromInt(int64(tr.PayableWorkingDays)).Div(workingDays)
	lopDays := decimal.NewFromFloat(tr.LOPDays)

	perDay := st.Gross.Div(workingDays)
	prorated := st.Gross.Mul(proration).Round(2)
	lopAmount := perDay.Mul(lopDays).Round(2)

	// earnRatio scales component wage bases the same way the gross is
	// scaled: pro-rated for partial-month employment, then reduced by
	// loss-of-pay days.
	earnRatio := proration.Sub(lopDays.Div(workingDays))
	if earnRatio.IsNegative() {
		earnRatio = decimal.Zero
	}

	grossEarned := prorated.Sub(lopAmount).Add(arr.Amount)
	if grossEarned.IsNegative() {
		grossEarned = decimal.Zero
	}
	basicEarned := st.Basic.Mul(earnRatio).Round(2)
	allowancesEarned := grossEarned.Sub(arr.Amount).Sub(basicEarned)
	if allowancesEarned.IsNegative() {
		allowancesEarned = decimal.Zero
	}

	pfBase := st.PFWageBase().Mul(earnRatio).Round(2)
	pfRes := s.pf.Calculate(pfBase, emp.PFOptOut, cfg.PF)

	healthRes, err := s.health.Calculate(ctx, emp.ID, month, year, st.Gross, grossEarned, cfg.Health)
	if err != nil {
		return zero, err
	}

	ptaxRes, err := s.payrollTax.Calculate(ctx, emp.ID, br.StateCode, month, year, grossEarned, cfg.PayrollTax)
	if err != nil {
		return zero, err
	}

	itaxRes, err := s.incomeTax.Calculate(ctx, emp.ID, month, year, grossEarned, st.Gross, decimal.Zero, "", cfg.IncomeTax)
	if err != nil {
		return zero, err
	}

	totalDeductions := pfRes.EmployeeAmount.
		Add(healthRes.EmployeeAmount).
		Add(ptaxRes.Amount).
		Add(itaxRes.MonthlyWithheld)
	netPay := grossEarned.Sub(totalDeductions)
	employerCost := grossEarned.
		Add(pfRes.EmployerTotal()).
		Add(pfRes.Surcharges()).
		Add(healthRes.EmployerAmount)

	rec := payroll.Record{
		EmployeeID:        emp.ID,
		BranchID:          emp.BranchID,
		Month:             month,
		Year:              year,
		RunID:             opts.RunID,
		StructureID:       st.ID,
		StructureVersion:  st.Version,
		WorkingDays:       tr.WorkingDays,
		PayableDays:       float64(tr.PayableWorkingDays) - tr.LOPDays,
		ProrationFactor:   proration.Round(4),
		FullMonthGross:    st.Gross,
		BasicEarned:       basicEarned,
		AllowancesEarned:  allowancesEarned,
		GrossEarned:       grossEarned,
		AbsentDays:        tr.AbsentDays,
		HalfDays:          tr.HalfDays,
		LateCount:         tr.LateCount,
		EarlyCount:        tr.EarlyCount,
		AutoCheckoutCount: tr.AutoCheckoutCount,
		PenaltyDays:       tr.PenaltyDays,
		LeaveDaysUsed:     tr.LeaveDaysUsed,
		LOPDays:           tr.LOPDays,
		LOPAmount:         lopAmount,
		ArrearsAmount:     arr.Amount,
		PFEmployee:        pfRes.EmployeeAmount,
		PFEmployer:        pfRes.EmployerTotal(),
		HealthEmployee:    healthRes.EmployeeAmount,
		HealthEmployer:    healthRes.EmployerAmount,
		PayrollTax:        ptaxRes.Amount,
		IncomeTax:         itaxRes.MonthlyWithheld,
		TotalDeductions:   totalDeductions,
		NetPay:            netPay,
		EmployerCost:      employerCost,
		Status:            payroll.StatusProcessed,
		CalculationLog: buildCalculationLog(
			emp, br, st, cfg, cfgSource, tr, arr, proration,
			lopAmount, pfBase, pfRes, healthRes, ptaxRes, itaxRes,
		),
	}

	created, err := s.records.Create(ctx, rec)
	if err != nil {
		return zero, err
	}

	if err := s.persistStatutoryRecords(ctx, emp.ID, month, year, br.StateCode, pfBase, pfRes, healthRes, ptaxRes, itaxRes); err != nil {
		return zero, err
	}

	if tr.LeaveDaysUsed > 0 {
		reason := leave.ReasonAttendanceDeduction
		if tr.PenaltyDays > 0 && tr.AbsentDays == 0 && tr.HalfDays == 0 {
			reason = leave.ReasonPenaltyDeduction
		}
		if _, err := s.ledger.Append(ctx, leave.LedgerEntry{
			EmployeeID:      emp.ID,
			Type:            leave.EntryTypeDeduction,
			LeaveType:       leave.LeaveTypeEarned,
			Days:            tr.LeaveDaysUsed,
			Reason:          reason,
			PayrollRecordID: &created.ID,
		}); err != nil {
			return zero, fmt.Errorf("failed to append leave deduction: %w", err)
		}
	}

	if arr.NeedsApply {
		if err := s.arrears.MarkApplied(ctx, arr.AdjustmentID, month, year); err != nil {
			return zero, err
		}
	}

	return created, nil
}

func (s *Service) persistStatutoryRecords(
	ctx context.Context,
	employeeID string,
	month, year int,
	stateCode string,
	pfBase decimal.Decimal,
	pfRes statutorysvc.PFResult,
	healthRes statutorysvc.HealthResult,
	ptaxRes statutorysvc.PayrollTaxResult,
	itaxRes statutorysvc.IncomeTaxResult,
) error {
	if _, err := s.statRecords.UpsertPFContribution(ctx, statutory.PFContribution{
		EmployeeID:        employeeID,
		Month:             month,
		Year:              year,
		WageBase:          pfBase,
		EmployeeAmount:    pfRes.EmployeeAmount,
		EmployerPension:   pfRes.EmployerPension,
		EmployerRemainder: pfRes.EmployerRemainder,
		AdminCharge:       pfRes.AdminCharge,
		InsuranceCharge:   pfRes.InsuranceCharge,
	}); err != nil {
		return fmt.Errorf("failed to upsert pf contribution: %w", err)
	}

	if _, err := s.statRecords.UpsertHealthContribution(ctx, statutory.HealthContribution{
		EmployeeID:     employeeID,
		Month:          month,
		Year:           year,
		Eligible:       healthRes.Eligible,
		MonthGross:     healthRes.MonthGross,
		EmployeeAmount: healthRes.EmployeeAmount,
		EmployerAmount: healthRes.EmployerAmount,
	}); err != nil {
		return fmt.Errorf("failed to upsert health contribution: %w", err)
	}

	if _, err := s.statRecords.UpsertPayrollTax(ctx, statutory.PayrollTaxRecord{
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,
		StateCode:  ptaxRes.StateCode,
		FiscalYear: ptaxRes.FiscalYear,
		Amount:     ptaxRes.Amount,
	}); err != nil {
		return fmt.Errorf("failed to upsert payroll tax record: %w", err)
	}

	if _, err := s.statRecords.UpsertIncomeTax(ctx, statutory.IncomeTaxRecord{
		EmployeeID:      employeeID,
		Month:           month,
		Year:            year,
		FiscalYear:      itaxRes.FiscalYear,
		Regime:          itaxRes.Regime,
		ProjectedAnnual: itaxRes.ProjectedAnnual,
		AnnualTax:       itaxRes.AnnualTax,
		TaxToDate:       itaxRes.TaxToDate,
		MonthlyWithheld: itaxRes.MonthlyWithheld,
	}); err != nil {
		return fmt.Errorf("failed to upsert income tax record: %w", err)
	}

	return nil
}

// buildCalculationLog snapshots every input and intermediate figure so each
// payslip line is re-derivable without re-running the pipeline.
func buildCalculationLog(
	emp employee.Employee,
	br branch.Branch,
	st salary.Structure,
	cfg statutory.Config,
	cfgSource statutory.ConfigSource,
	tr attendancesvc.Result,
	arr ArrearsResult,
	proration decimal.Decimal,
	lopAmount, pfBase decimal.Decimal,
	pfRes statutorysvc.PFResult,
	healthRes statutorysvc.HealthResult,
	ptaxRes statutorysvc.PayrollTaxResult,
	itaxRes statutorysvc.IncomeTaxResult,
) map[string]any {
	return map[string]any{
		"config_version": cfg.Version,
		"config_source":  string(cfgSource),
		"structure": map[string]any{
			"id":             st.ID,
			"version":        st.Version,
			"basic":          st.Basic.String(),
			"da":             st.DearnessAllowance.String(),
			"hra":            st.HouseRentAllowance.String(),
			"special":        st.SpecialAllowance.String(),
			"gross":          st.Gross.String(),
			"effective_from": st.EffectiveFrom.Format("2006-01-02"),
		},
		"attendance": map[string]any{
			"working_days":         tr.WorkingDays,
			"payable_working_days": tr.PayableWorkingDays,
			"absent_days":          tr.AbsentDays,
			"half_days":            tr.HalfDays,
			"late_count":           tr.LateCount,
			"early_count":          tr.EarlyCount,
			"auto_checkout_count":  tr.AutoCheckoutCount,
			"penalty_days":         tr.PenaltyDays,
			"leave_days_used":      tr.LeaveDaysUsed,
			"lop_days":             tr.LOPDays,
			"post_probation":       tr.IsPostProbation,
		},
		"proration_factor": proration.String(),
		"lop_amount":       lopAmount.String(),
		"arrears": map[string]any{
			"amount":          arr.Amount.String(),
			"adjustment_id":   arr.AdjustmentID,
			"affected_months": arr.AffectedMonths,
		},
		"provident_fund": map[string]any{
			"applicable":         pfRes.Applicable,
			"wage_base":          pfBase.String(),
			"opt_out":            emp.PFOptOut,
			"employee":           pfRes.EmployeeAmount.String(),
			"employer_pension":   pfRes.EmployerPension.String(),
			"employer_remainder": pfRes.EmployerRemainder.String(),
			"admin_charge":       pfRes.AdminCharge.String(),
			"insurance_charge":   pfRes.InsuranceCharge.String(),
		},
		"health_contribution": map[string]any{
			"eligible":       healthRes.Eligible,
			"locked_at":      healthRes.LockedAtPeriodStart,
			"month_gross":    healthRes.MonthGross.String(),
			"employee":       healthRes.EmployeeAmount.String(),
			"employer":       healthRes.EmployerAmount.String(),
			"threshold":      cfg.Health.GrossThreshold.String(),
			"branch_tz":      br.Timezone,
			"branch_state":   br.StateCode,
			"working_policy": len(br.WorkingDays),
		},
		"payroll_tax": map[string]any{
			"state_code":         ptaxRes.StateCode,
			"used_default_state": ptaxRes.UsedDefaultState,
			"slab_amount":        ptaxRes.SlabAmount.String(),
			"amount":             ptaxRes.Amount.String(),
			"fiscal_year":        ptaxRes.FiscalYear,
			"year_to_date":       ptaxRes.YearToDate.String(),
			"annual_cap":         ptaxRes.AnnualCap.String(),
		},
		"income_tax": map[string]any{
			"regime":           itaxRes.Regime,
			"fiscal_year":      itaxRes.FiscalYear,
			"projected_annual": itaxRes.ProjectedAnnual.String(),
			"taxable_income":   itaxRes.TaxableIncome.String(),
			"annual_tax":       itaxRes.AnnualTax.String(),
			"tax_to_date":      itaxRes.TaxToDate.String(),
			"remaining_months": itaxRes.RemainingMonths,
			"monthly_withheld": itaxRes.MonthlyWithheld.String(),
		},
	}
}
