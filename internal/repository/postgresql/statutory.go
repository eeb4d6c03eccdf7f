package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/statutory"
	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/database"
)

type statutoryConfigRepository struct {
	db *database.DB
}

func NewStatutoryConfigRepository(db *database.DB) statutory.ConfigRepository {
	return &statutoryConfigRepository{db: db}
}

func (r *statutoryConfigRepository) GetLatest(ctx context.Context) (statutory.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT version, payload, updated_at
		FROM statutory_configs
		ORDER BY version DESC
		LIMIT 1
	`

	var (
		version   int
		payload   []byte
		updatedAt time.Time
	)
	if err := q.QueryRow(ctx, query).Scan(&version, &payload, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return statutory.Config{}, statutory.ErrConfigNotFound
		}
		return statutory.Config{}, fmt.Errorf("failed to get statutory config: %w", err)
	}

	var cfg statutory.Config
	if err := json.Unmarshal(payload, &cfg); err != nil {
		return statutory.Config{}, fmt.Errorf("failed to decode statutory config payload: %w", err)
	}
	cfg.Version = version
	cfg.UpdatedAt = updatedAt

	return cfg, nil
}

type healthLockRepository struct {
	db *database.DB
}

func NewHealthLockRepository(db *database.DB) statutory.HealthLockRepository {
	return &healthLockRepository{db: db}
}

func (r *healthLockRepository) GetLock(ctx context.Context, employeeID string, periodStart time.Time) (statutory.HealthPeriodLock, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, period_start, period_end, eligible, gross_at_lock, created_at
		FROM health_period_locks
		WHERE employee_id = $1 AND period_start = $2
	`

	var l statutory.HealthPeriodLock
	err := q.QueryRow(ctx, query, employeeID, periodStart).Scan(
		&l.ID, &l.EmployeeID, &l.PeriodStart, &l.PeriodEnd, &l.Eligible, &l.GrossAtLock, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return statutory.HealthPeriodLock{}, statutory.ErrPeriodLockNotFound
		}
		return statutory.HealthPeriodLock{}, fmt.Errorf("failed to get health period lock: %w", err)
	}

	return l, nil
}

func (r *healthLockRepository) CreateLock(ctx context.Context, lock statutory.HealthPeriodLock) (statutory.HealthPeriodLock, error) {
	q := GetQuerier(ctx, r.db)

	// ON CONFLICT DO NOTHING + re-read keeps the first writer's decision,
	// so a lock is never rewritten once taken.
	query := `
		INSERT INTO health_period_locks (id, employee_id, period_start, period_end, eligible, gross_at_lock)
		VALUES (uuidv7(), $1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, period_start) DO NOTHING
	`

	_, err := q.Exec(ctx, query,
		lock.EmployeeID, lock.PeriodStart, lock.PeriodEnd, lock.Eligible, lock.GrossAtLock,
	)
	if err != nil {
		return statutory.HealthPeriodLock{}, fmt.Errorf("failed to create health period lock: %w", err)
	}

	return r.GetLock(ctx, lock.EmployeeID, lock.PeriodStart)
}

type statutoryRecordRepository struct {
	db *database.DB
}

func NewStatutoryRecordRepository(db *database.DB) statutory.RecordRepository {
	return &statutoryRecordRepository{db: db}
}

func (r *statutoryRecordRepository) UpsertPFContribution(ctx context.Context, rec statutory.PFContribution) (statutory.PFContribution, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pf_contributions (
			id, employee_id, month, year, wage_base, employee_amount,
			employer_pension, employer_remainder, admin_charge, insurance_charge
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			wage_base = EXCLUDED.wage_base,
			employee_amount = EXCLUDED.employee_amount,
			employer_pension = EXCLUDED.employer_pension,
			employer_remainder = EXCLUDED.employer_remainder,
			admin_charge = EXCLUDED.admin_charge,
			insurance_charge = EXCLUDED.insurance_charge,
			updated_at = NOW()
		RETURNING id, employee_id, month, year, wage_base, employee_amount,
			employer_pension, employer_remainder, admin_charge, insurance_charge,
			created_at, updated_at
	`

	var out statutory.PFContribution
	err := q.QueryRow(ctx, query,
		rec.EmployeeID, rec.Month, rec.Year, rec.WageBase, rec.EmployeeAmount,
		rec.EmployerPension, rec.EmployerRemainder, rec.AdminCharge, rec.InsuranceCharge,
	).Scan(
		&out.ID, &out.EmployeeID, &out.Month, &out.Year, &out.WageBase, &out.EmployeeAmount,
		&out.EmployerPension, &out.EmployerRemainder, &out.AdminCharge, &out.InsuranceCharge,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return statutory.PFContribution{}, fmt.Errorf("failed to upsert PF contribution: %w", err)
	}

	return out, nil
}

func (r *statutoryRecordRepository) UpsertHealthContribution(ctx context.Context, rec statutory.HealthContribution) (statutory.HealthContribution, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO health_contributions (
			id, employee_id, month, year, eligible, month_gross, employee_amount, employer_amount
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			eligible = EXCLUDED.eligible,
			month_gross = EXCLUDED.month_gross,
			employee_amount = EXCLUDED.employee_amount,
			employer_amount = EXCLUDED.employer_amount,
			updated_at = NOW()
		RETURNING id, employee_id, month, year, eligible, month_gross,
			employee_amount, employer_amount, created_at, updated_at
	`

	var out statutory.HealthContribution
	err := q.QueryRow(ctx, query,
		rec.EmployeeID, rec.Month, rec.Year, rec.Eligible, rec.MonthGross, rec.EmployeeAmount, rec.EmployerAmount,
	).Scan(
		&out.ID, &out.EmployeeID, &out.Month, &out.Year, &out.Eligible, &out.MonthGross,
		&out.EmployeeAmount, &out.EmployerAmount, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return statutory.HealthContribution{}, fmt.Errorf("failed to upsert health contribution: %w", err)
	}

	return out, nil
}

func (r *statutoryRecordRepository) UpsertPayrollTax(ctx context.Context, rec statutory.PayrollTaxRecord) (statutory.PayrollTaxRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_tax_records (
			id, employee_id, month, year, state_code, fiscal_year, amount
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			state_code = EXCLUDED.state_code,
			fiscal_year = EXCLUDED.fiscal_year,
			amount = EXCLUDED.amount,
			updated_at = NOW()
		RETURNING id, employee_id, month, year, state_code, fiscal_year, amount, created_at, updated_at
	`

	var out statutory.PayrollTaxRecord
	err := q.QueryRow(ctx, query,
		rec.EmployeeID, rec.Month, rec.Year, rec.StateCode, rec.FiscalYear, rec.Amount,
	).Scan(
		&out.ID, &out.EmployeeID, &out.Month, &out.Year, &out.StateCode, &out.FiscalYear,
		&out.Amount, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return statutory.PayrollTaxRecord{}, fmt.Errorf("failed to upsert payroll tax record: %w", err)
	}

	return out, nil
}

func (r *statutoryRecordRepository) UpsertIncomeTax(ctx context.Context, rec statutory.IncomeTaxRecord) (statutory.IncomeTaxRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO income_tax_records (
			id, employee_id, month, year, fiscal_year, regime,
			projected_annual, annual_tax, tax_to_date, monthly_withheld
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, month, year) DO UPDATE SET
			fiscal_year = EXCLUDED.fiscal_year,
			regime = EXCLUDED.regime,
			projected_annual = EXCLUDED.projected_annual,
			annual_tax = EXCLUDED.annual_tax,
			tax_to_date = EXCLUDED.tax_to_date,
			monthly_withheld = EXCLUDED.monthly_withheld,
			updated_at = NOW()
		RETURNING id, employee_id, month, year, fiscal_year, regime,
			projected_annual, annual_tax, tax_to_date, monthly_withheld,
			created_at, updated_at
	`

	var out statutory.IncomeTaxRecord
	err := q.QueryRow(ctx, query,
		rec.EmployeeID, rec.Month, rec.Year, rec.FiscalYear, rec.Regime,
		rec.ProjectedAnnual, rec.AnnualTax, rec.TaxToDate, rec.MonthlyWithheld,
	).Scan(
		&out.ID, &out.EmployeeID, &out.Month, &out.Year, &out.FiscalYear, &out.Regime,
		&out.ProjectedAnnual, &out.AnnualTax, &out.TaxToDate, &out.MonthlyWithheld,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return statutory.IncomeTaxRecord{}, fmt.Errorf("failed to upsert income tax record: %w", err)
	}

	return out, nil
}

func (r *statutoryRecordRepository) SumPayrollTaxForFiscalYear(ctx context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payroll_tax_records
		WHERE employee_id = $1 AND fiscal_year = $2
		  AND NOT (month = $3 AND year = $4)
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, fiscalYear, excludeMonth, excludeYear).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payroll tax for fiscal year: %w", err)
	}

	return total, nil
}

func (r *statutoryRecordRepository) SumIncomeTaxForFiscalYear(ctx context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(monthly_withheld), 0)
		FROM income_tax_records
		WHERE employee_id = $1 AND fiscal_year = $2
		  AND NOT (month = $3 AND year = $4)
	`

	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, employeeID, fiscalYear, excludeMonth, excludeYear).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum income tax for fiscal year: %w", err)
	}

	return total, nil
}
