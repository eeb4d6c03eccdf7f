package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type RecordRepository interface {
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	// GetActiveByPeriod returns the single non-superseded record for
	// (employee, month, year).
	GetActiveByPeriod(ctx context.Context, employeeID string, month, year int) (Record, error)
	// Supersede flips a record to superseded. Guarded by status so a
	// record is superseded at most once.
	Supersede(ctx context.Context, id string) error
	ListByBranchPeriod(ctx context.Context, branchID string, month, year int) ([]Record, error)
	// SumGrossForFiscalYear totals earned gross over non-superseded
	// records in the fiscal year, excluding the given period. Feeds the
	// income-tax annual projection.
	SumGrossForFiscalYear(ctx context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error)
	// ListMonthsForStructure returns the periods already processed under a
	// structure with period start on/after from, "2006-01" format.
	// Feeds arrears detection.
	ListMonthsForStructure(ctx context.Context, employeeID, structureID string, from time.Time) ([]string, error)
}

// BranchTotals aggregates record figures for a (branch, period).
type BranchTotals struct {
	Gross      decimal.Decimal
	Deductions decimal.Decimal
	Net        decimal.Decimal
}

type RunRepository interface {
	// Create inserts a run in running state. Returns ErrRunAlreadyActive
	// when another run for the same (branch, month, year) is running.
	Create(ctx context.Context, run Run) (Run, error)
	GetByID(ctx context.Context, id string) (Run, error)
	// Complete marks the run finished with its tallies and recomputed
	// totals.
	Complete(ctx context.Context, run Run) error
	Fail(ctx context.Context, id string, reason string) error
	// SumTotalsForPeriod recomputes aggregate totals from all
	// non-superseded records of the period, avoiding incremental drift.
	SumTotalsForPeriod(ctx context.Context, branchID string, month, year int) (BranchTotals, error)
	// ListStuck returns runs still running that started before the cutoff.
	ListStuck(ctx context.Context, cutoff time.Time) ([]Run, error)
}
