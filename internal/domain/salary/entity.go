package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Structure is an effective-dated, versioned compensation record. At most
// one structure per employee is active; creating a new one deactivates the
// prior and stamps its EffectiveTo. The engine only reads structures.
type Structure struct {
	ID         string
	EmployeeID string
	Version    int
	Basic      decimal.Decimal
	// DearnessAllowance joins Basic in the provident fund wage base.
	DearnessAllowance  decimal.Decimal
	HouseRentAllowance decimal.Decimal
	SpecialAllowance   decimal.Decimal
	// Gross is derived from the components when the structure is created.
	Gross         decimal.Decimal
	IsActive      bool
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PFWageBase is the portion of the structure provident fund contributions
// are computed on.
func (s Structure) PFWageBase() decimal.Decimal {
	return s.Basic.Add(s.DearnessAllowance)
}

// ArrearsStatus enum
type ArrearsStatus string

const (
	ArrearsStatusPending   ArrearsStatus = "pending"
	ArrearsStatusApplied   ArrearsStatus = "applied"
	ArrearsStatusCancelled ArrearsStatus = "cancelled"
)

// ArrearsAdjustment is the one-time credit emitted when a retroactive raise
// is detected. At most one pending/applied adjustment may exist per
// structure-version transition.
type ArrearsAdjustment struct {
	ID              string
	EmployeeID      string
	FromStructureID string
	ToStructureID   string
	OldGross        decimal.Decimal
	NewGross        decimal.Decimal
	// AffectedMonths lists the already-processed months the raise covers,
	// "2025-04" format.
	AffectedMonths []string
	Amount         decimal.Decimal
	Status         ArrearsStatus
	// AppliedMonth/AppliedYear record which payroll period absorbed the
	// adjustment, so reprocessing that same period reuses the amount
	// instead of double-crediting or dropping it.
	AppliedMonth *int
	AppliedYear  *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
