package statutory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ConfigRepository reads the versioned statutory snapshot from storage.
type ConfigRepository interface {
	GetLatest(ctx context.Context) (Config, error)
}

type HealthLockRepository interface {
	GetLock(ctx context.Context, employeeID string, periodStart time.Time) (HealthPeriodLock, error)
	// CreateLock inserts the lock for a period; on a concurrent insert the
	// existing lock wins and is returned.
	CreateLock(ctx context.Context, lock HealthPeriodLock) (HealthPeriodLock, error)
}

// RecordRepository upserts the statutory sub-records, keyed by
// (employee, month, year) each, so reprocessing replaces rather than
// duplicates.
type RecordRepository interface {
	UpsertPFContribution(ctx context.Context, rec PFContribution) (PFContribution, error)
	UpsertHealthContribution(ctx context.Context, rec HealthContribution) (HealthContribution, error)
	UpsertPayrollTax(ctx context.Context, rec PayrollTaxRecord) (PayrollTaxRecord, error)
	UpsertIncomeTax(ctx context.Context, rec IncomeTaxRecord) (IncomeTaxRecord, error)

	// SumPayrollTaxForFiscalYear totals withheld payroll tax for the
	// fiscal year, excluding the given period (the month being computed).
	SumPayrollTaxForFiscalYear(ctx context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error)
	// SumIncomeTaxForFiscalYear totals income tax withheld for the fiscal
	// year, excluding the given period.
	SumIncomeTaxForFiscalYear(ctx context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error)
}
