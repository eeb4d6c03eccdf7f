package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/database"
)

type payrollRecordRepository struct {
	db *database.DB
}

func NewPayrollRecordRepository(db *database.DB) payroll.RecordRepository {
	return &payrollRecordRepository{db: db}
}

const recordColumns = `
	id, employee_id, branch_id, month, year, run_id,
	structure_id, structure_version,
	working_days, payable_days, proration_factor,
	full_month_gross, basic_earned, allowances_earned, gross_earned,
	absent_days, half_days, late_count, early_count, auto_checkout_count,
	penalty_days, leave_days_used, lop_days, lop_amount, arrears_amount,
	pf_employee, pf_employer, health_employee, health_employer,
	payroll_tax, income_tax, total_deductions, net_pay, employer_cost,
	status, calculation_log, created_at, updated_at
`

func scanRecord(row pgx.Row) (payroll.Record, error) {
	var rec payroll.Record
	var calcLog []byte
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.BranchID, &rec.Month, &rec.Year, &rec.RunID,
		&rec.StructureID, &rec.StructureVersion,
		&rec.WorkingDays, &rec.PayableDays, &rec.ProrationFactor,
		&rec.FullMonthGross, &rec.BasicEarned, &rec.AllowancesEarned, &rec.GrossEarned,
		&rec.AbsentDays, &rec.HalfDays, &rec.LateCount, &rec.EarlyCount, &rec.AutoCheckoutCount,
		&rec.PenaltyDays, &rec.LeaveDaysUsed, &rec.LOPDays, &rec.LOPAmount, &rec.ArrearsAmount,
		&rec.PFEmployee, &rec.PFEmployer, &rec.HealthEmployee, &rec.HealthEmployer,
		&rec.PayrollTax, &rec.IncomeTax, &rec.TotalDeductions, &rec.NetPay, &rec.EmployerCost,
		&rec.Status, &calcLog, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return payroll.Record{}, err
	}
	if len(calcLog) > 0 {
		if err := json.Unmarshal(calcLog, &rec.CalculationLog); err != nil {
			return payroll.Record{}, fmt.Errorf("failed to decode calculation log: %w", err)
		}
	}
	return rec, nil
}

func (r *payrollRecordRepository) Create(ctx context.Context, record payroll.Record) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	calcLog, err := json.Marshal(record.CalculationLog)
	if err != nil {
		return payroll.Record{}, fmt.Errorf("failed to encode calculation log: %w", err)
	}

	query := `
		INSERT INTO payroll_records (
			id, employee_id, branch_id, month, year, run_id,
			structure_id, structure_version,
			working_days, payable_days, proration_factor,
			full_month_gross, basic_earned, allowances_earned, gross_earned,
			absent_days, half_days, late_count, early_count, auto_checkout_count,
			penalty_days, leave_days_used, lop_days, lop_amount, arrears_amount,
			pf_employee, pf_employer, health_employee, health_employer,
			payroll_tax, income_tax, total_deductions, net_pay, employer_cost,
			status, calculation_log
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35
		)
		RETURNING ` + recordColumns

	created, err := scanRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.BranchID, record.Month, record.Year, record.RunID,
		record.StructureID, record.StructureVersion,
		record.WorkingDays, record.PayableDays, record.ProrationFactor,
		record.FullMonthGross, record.BasicEarned, record.AllowancesEarned, record.GrossEarned,
		record.AbsentDays, record.HalfDays, record.LateCount, record.EarlyCount, record.AutoCheckoutCount,
		record.PenaltyDays, record.LeaveDaysUsed, record.LOPDays, record.LOPAmount, record.ArrearsAmount,
		record.PFEmployee, record.PFEmployer, record.HealthEmployee, record.HealthEmployer,
		record.PayrollTax, record.IncomeTax, record.TotalDeductions, record.NetPay, record.EmployerCost,
		record.Status, calcLog,
	))
	if err != nil {
		// Partial unique index over non-superseded records: exactly one
		// active record per (employee, month, year). A concurrent writer
		// winning the race is fatal for this employee, never overwritten.
		if strings.Contains(err.Error(), "uk_payroll_record_active_period") {
			return payroll.Record{}, payroll.ErrDuplicateActiveRecord
		}
		return payroll.Record{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return created, nil
}

func (r *payrollRecordRepository) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + recordColumns + ` FROM payroll_records WHERE id = $1`

	rec, err := scanRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRecordRepository) GetActiveByPeriod(ctx context.Context, employeeID string, month, year int) (payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM payroll_records
		WHERE employee_id = $1 AND month = $2 AND year = $3 AND status != 'superseded'
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Record{}, payroll.ErrRecordNotFound
		}
		return payroll.Record{}, fmt.Errorf("failed to get active payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRecordRepository) Supersede(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = 'superseded', updated_at = NOW()
		WHERE id = $1 AND status != 'superseded'
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to supersede payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRecordNotFound
	}

	return nil
}

func (r *payrollRecordRepository) ListByBranchPeriod(ctx context.Context, branchID string, month, year int) ([]payroll.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM payroll_records
		WHERE branch_id = $1 AND month = $2 AND year = $3 AND status != 'superseded'
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, branchID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var result []payroll.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		result = append(result, rec)
	}

	return result, rows.Err()
}

func (r *payrollRecordRepository) SumGrossForFiscalYear(ctx context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	// Fiscal year runs April..March; derive it from (month, year) per row.
	query := `
		SELECT COALESCE(SUM(gross_earned), 0)
		FROM payroll_records
		WHERE employee_id = $1
		  AND status != 'superseded'
		  AND NOT (month = $3 AND year = $4)
		  AND (CASE WHEN month >= 4
				THEN year::text || '-' || to_char((year + 1) % 100, 'FM00')
				ELSE (year - 1)::text || '-' || to_char(year % 100, 'FM00')
			   END) = $2
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, fiscalYear, excludeMonth, excludeYear).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum fiscal year gross: %w", err)
	}

	return total, nil
}

func (r *payrollRecordRepository) ListMonthsForStructure(ctx context.Context, employeeID, structureID string, from time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT to_char(make_date(year, month, 1), 'YYYY-MM') AS period
		FROM payroll_records
		WHERE employee_id = $1
		  AND structure_id = $2
		  AND status != 'superseded'
		  AND make_date(year, month, 1) >= date_trunc('month', $3::date)
		ORDER BY period
	`

	rows, err := q.Query(ctx, query, employeeID, structureID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list months for structure: %w", err)
	}
	defer rows.Close()

	var months []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan month: %w", err)
		}
		months = append(months, m)
	}

	return months, rows.Err()
}

type payrollRunRepository struct {
	db *database.DB
}

func NewPayrollRunRepository(db *database.DB) payroll.RunRepository {
	return &payrollRunRepository{db: db}
}

const runColumns = `
	id, branch_id, month, year, status, initiated_by,
	total_employees, processed, failed, skipped,
	total_gross, total_deductions, total_net,
	failure_reasons, started_at, completed_at
`

func scanRun(row pgx.Row) (payroll.Run, error) {
	var run payroll.Run
	var reasons []byte
	err := row.Scan(
		&run.ID, &run.BranchID, &run.Month, &run.Year, &run.Status, &run.InitiatedBy,
		&run.TotalEmployees, &run.Processed, &run.Failed, &run.Skipped,
		&run.TotalGross, &run.TotalDeductions, &run.TotalNet,
		&reasons, &run.StartedAt, &run.CompletedAt,
	)
	if err != nil {
		return payroll.Run{}, err
	}
	if len(reasons) > 0 {
		if err := json.Unmarshal(reasons, &run.FailureReasons); err != nil {
			return payroll.Run{}, fmt.Errorf("failed to decode failure reasons: %w", err)
		}
	}
	return run, nil
}

func (r *payrollRunRepository) Create(ctx context.Context, run payroll.Run) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (
			id, branch_id, month, year, status, initiated_by, total_employees
		) VALUES (uuidv7(), $1, $2, $3, 'running', $4, $5)
		RETURNING ` + runColumns

	created, err := scanRun(q.QueryRow(ctx, query,
		run.BranchID, run.Month, run.Year, run.InitiatedBy, run.TotalEmployees,
	))
	if err != nil {
		// Partial unique index over running runs is the mutual-exclusion
		// gate for (branch, month, year).
		if strings.Contains(err.Error(), "uk_payroll_run_active") {
			return payroll.Run{}, payroll.ErrRunAlreadyActive
		}
		return payroll.Run{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	return created, nil
}

func (r *payrollRunRepository) GetByID(ctx context.Context, id string) (payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE id = $1`

	run, err := scanRun(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Run{}, payroll.ErrRunNotFound
		}
		return payroll.Run{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return run, nil
}

func (r *payrollRunRepository) Complete(ctx context.Context, run payroll.Run) error {
	q := GetQuerier(ctx, r.db)

	reasons, err := json.Marshal(run.FailureReasons)
	if err != nil {
		return fmt.Errorf("failed to encode failure reasons: %w", err)
	}

	query := `
		UPDATE payroll_runs
		SET status = 'completed', processed = $2, failed = $3, skipped = $4,
			total_gross = $5, total_deductions = $6, total_net = $7,
			failure_reasons = $8, completed_at = NOW()
		WHERE id = $1 AND status = 'running'
	`

	tag, err := q.Exec(ctx, query,
		run.ID, run.Processed, run.Failed, run.Skipped,
		run.TotalGross, run.TotalDeductions, run.TotalNet, reasons,
	)
	if err != nil {
		return fmt.Errorf("failed to complete payroll run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrRunNotFound
	}

	return nil
}

func (r *payrollRunRepository) Fail(ctx context.Context, id string, reason string) error {
	q := GetQuerier(ctx, r.db)

	reasons, err := json.Marshal(map[string]string{"run": reason})
	if err != nil {
		return fmt.Errorf("failed to encode failure reason: %w", err)
	}

	query := `
		UPDATE payroll_runs
		SET status = 'failed', failure_reasons = $2, completed_at = NOW()
		WHERE id = $1 AND status = 'running'
	`

	if _, err := q.Exec(ctx, query, id, reasons); err != nil {
		return fmt.Errorf("failed to mark payroll run failed: %w", err)
	}

	return nil
}

func (r *payrollRunRepository) SumTotalsForPeriod(ctx context.Context, branchID string, month, year int) (payroll.BranchTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(gross_earned), 0), COALESCE(SUM(total_deductions), 0), COALESCE(SUM(net_pay), 0)
		FROM payroll_records
		WHERE branch_id = $1 AND month = $2 AND year = $3 AND status != 'superseded'
	`

	var totals payroll.BranchTotals
	if err := q.QueryRow(ctx, query, branchID, month, year).Scan(
		&totals.Gross, &totals.Deductions, &totals.Net,
	); err != nil {
		return payroll.BranchTotals{}, fmt.Errorf("failed to sum branch totals: %w", err)
	}

	return totals, nil
}

func (r *payrollRunRepository) ListStuck(ctx context.Context, cutoff time.Time) ([]payroll.Run, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + runColumns + `
		FROM payroll_runs
		WHERE status = 'running' AND started_at < $1
		ORDER BY started_at
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stuck runs: %w", err)
	}
	defer rows.Close()

	var result []payroll.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		result = append(result, run)
	}

	return result, rows.Err()
}
