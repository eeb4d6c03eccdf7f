package salary

import (
	"context"
	"time"
)

type StructureRepository interface {
	// GetEffectiveForPeriod returns the latest structure with
	// EffectiveFrom <= periodEnd.
	GetEffectiveForPeriod(ctx context.Context, employeeID string, periodEnd time.Time) (Structure, error)
	// GetEarliest returns the employee's first structure, used as the
	// fallback when no structure precedes the period (genuinely new hires).
	GetEarliest(ctx context.Context, employeeID string) (Structure, error)
	// GetPreviousVersion returns the structure immediately preceding the
	// given version, regardless of active flag.
	GetPreviousVersion(ctx context.Context, employeeID string, beforeVersion int) (Structure, error)
}

type ArrearsRepository interface {
	Create(ctx context.Context, adj ArrearsAdjustment) (ArrearsAdjustment, error)
	// GetByTransition finds the non-cancelled adjustment for a
	// structure-version transition, if any.
	GetByTransition(ctx context.Context, fromStructureID, toStructureID string) (ArrearsAdjustment, error)
	MarkApplied(ctx context.Context, id string, month, year int) error
}
