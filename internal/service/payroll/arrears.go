package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/salary"
)

// ArrearsResult is the outcome of arrears detection for one pipeline run.
type ArrearsResult struct {
	Amount decimal.Decimal
	// AdjustmentID is set when an adjustment backs the amount; the
	// pipeline marks it applied inside the same transaction as the
	// payroll record.
	AdjustmentID string
	// NeedsApply is true for pending adjustments that this period will
	// absorb.
	NeedsApply     bool
	AffectedMonths []string
}

// ArrearsDetector emits a one-time adjustment when a retroactive raise is
// detected: the current structure's gross exceeds the previous version's,
// and months were already processed under the old version at or after the
// new effective date. Guarded so repeated reprocessing never double-credits.
type ArrearsDetector struct {
	structures salary.StructureRepository
	arrears    salary.ArrearsRepository
	records    payroll.RecordRepository
}

func NewArrearsDetector(structures salary.StructureRepository, arrears salary.ArrearsRepository, records payroll.RecordRepository) *ArrearsDetector {
	return &ArrearsDetector{structures: structures, arrears: arrears, records: records}
}

// MarkApplied stamps the adjustment with the absorbing period.
func (d *ArrearsDetector) MarkApplied(ctx context.Context, id string, month, year int) error {
	if err := d.arrears.MarkApplied(ctx, id, month, year); err != nil {
		return fmt.Errorf("failed to mark arrears applied: %w", err)
	}
	return nil
}

func (d *ArrearsDetector) Detect(ctx context.Context, employeeID string, current salary.Structure, month, year int) (ArrearsResult, error) {
	zero := ArrearsResult{Amount: decimal.Zero}

	if current.Version <= 1 {
		return zero, nil
	}

	prev, err := d.structures.GetPreviousVersion(ctx, employeeID, current.Version)
	if err != nil {
		if errors.Is(err, salary.ErrStructureNotFound) {
			return zero, nil
		}
		return zero, fmt.Errorf("failed to get previous salary structure: %w", err)
	}

	// Salary decreases never generate negative arrears.
	if current.Gross.LessThanOrEqual(prev.Gross) {
		return zero, nil
	}

	existing, err := d.arrears.GetByTransition(ctx, prev.ID, current.ID)
	if err == nil {
		return d.resolveExisting(existing, month, year), nil
	}
	if !errors.Is(err, salary.ErrArrearsNotFound) {
		return zero, fmt.Errorf("failed to look up arrears adjustment: %w", err)
	}

	months, err := d.records.ListMonthsForStructure(ctx, employeeID, prev.ID, current.EffectiveFrom)
	if err != nil {
		return zero, fmt.Errorf("failed to list affected months: %w", err)
	}
	if len(months) == 0 {
		return zero, nil
	}

	amount := current.Gross.Sub(prev.Gross).Mul(decimal.NewFromInt(int64(len(months)))).Round(2)

	adj, err := d.arrears.Create(ctx, salary.ArrearsAdjustment{
		EmployeeID:      employeeID,
		FromStructureID: prev.ID,
		ToStructureID:   current.ID,
		OldGross:        prev.Gross,
		NewGross:        current.Gross,
		AffectedMonths:  months,
		Amount:          amount,
		Status:          salary.ArrearsStatusPending,
	})
	if err != nil {
		if errors.Is(err, salary.ErrArrearsExists) {
			// Lost a race with a concurrent pipeline; use its adjustment.
			existing, gerr := d.arrears.GetByTransition(ctx, prev.ID, current.ID)
			if gerr != nil {
				return zero, fmt.Errorf("failed to re-read arrears adjustment: %w", gerr)
			}
			return d.resolveExisting(existing, month, year), nil
		}
		return zero, fmt.Errorf("failed to create arrears adjustment: %w", err)
	}

	return ArrearsResult{
		Amount:         adj.Amount,
		AdjustmentID:   adj.ID,
		NeedsApply:     true,
		AffectedMonths: adj.AffectedMonths,
	}, nil
}

// resolveExisting decides what an already-recorded adjustment contributes
// to the period being processed. A pending adjustment is absorbed now; an
// applied one counts again only when its own absorbing period is being
// reprocessed (the prior record was superseded, so the credit must be
// re-issued there and nowhere else).
func (d *ArrearsDetector) resolveExisting(adj salary.ArrearsAdjustment, month, year int) ArrearsResult {
	switch adj.Status {
	case salary.ArrearsStatusPending:
		return ArrearsResult{
			Amount:         adj.Amount,
			AdjustmentID:   adj.ID,
			NeedsApply:     true,
			AffectedMonths: adj.AffectedMonths,
		}
	case salary.ArrearsStatusApplied:
		if adj.AppliedMonth != nil && adj.AppliedYear != nil &&
			*adj.AppliedMonth == month && *adj.AppliedYear == year {
			return ArrearsResult{
				Amount:         adj.Amount,
				AdjustmentID:   adj.ID,
				AffectedMonths: adj.AffectedMonths,
			}
		}
	}
	return ArrearsResult{Amount: decimal.Zero}
}
