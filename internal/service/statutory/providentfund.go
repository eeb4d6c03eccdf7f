package statutory

import (
	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/statutory"
)

var hundred = decimal.NewFromInt(100)

// PFResult is the provident fund breakdown for one month.
type PFResult struct {
	Applicable        bool
	WageBase          decimal.Decimal
	EmployeeAmount    decimal.Decimal
	EmployerPension   decimal.Decimal
	EmployerRemainder decimal.Decimal
	AdminCharge       decimal.Decimal
	InsuranceCharge   decimal.Decimal
}

// EmployerTotal is the pension and remainder portions combined.
func (r PFResult) EmployerTotal() decimal.Decimal {
	return r.EmployerPension.Add(r.EmployerRemainder)
}

// Surcharges is the admin and insurance charges combined, borne by the
// employer on top of the contribution.
func (r PFResult) Surcharges() decimal.Decimal {
	return r.AdminCharge.Add(r.InsuranceCharge)
}

// ProvidentFundCalculator computes monthly provident fund contributions
// from the earned PF wage base (basic + DA, post loss-of-pay).
type ProvidentFundCalculator struct{}

func NewProvidentFundCalculator() *ProvidentFundCalculator {
	return &ProvidentFundCalculator{}
}

// Calculate applies the configured rates to the wage base. Membership is
// mandatory at or below the eligibility ceiling; above it an opted-out
// employee contributes nothing.
func (c *ProvidentFundCalculator) Calculate(wageBase decimal.Decimal, optOut bool, cfg statutory.PFConfig) PFResult {
	if wageBase.LessThanOrEqual(decimal.Zero) {
		return PFResult{WageBase: decimal.Zero}
	}
	if optOut && wageBase.GreaterThan(cfg.EligibilityWageCeiling) {
		return PFResult{Applicable: false, WageBase: wageBase}
	}

	employee := wageBase.Mul(cfg.EmployeeRatePercent).Div(hundred).Round(2)

	pensionBase := wageBase
	if pensionBase.GreaterThan(cfg.PensionWageCeiling) {
		pensionBase = cfg.PensionWageCeiling
	}
	pension := pensionBase.Mul(cfg.PensionRatePercent).Div(hundred).Round(2)

	employerTotal := wageBase.Mul(cfg.EmployerRatePercent).Div(hundred).Round(2)
	remainder := employerTotal.Sub(pension)
	if remainder.IsNegative() {
		remainder = decimal.Zero
	}

	return PFResult{
		Applicable:        true,
		WageBase:          wageBase,
		EmployeeAmount:    employee,
		EmployerPension:   pension,
		EmployerRemainder: remainder,
		AdminCharge:       wageBase.Mul(cfg.AdminRatePercent).Div(hundred).Round(2),
		InsuranceCharge:   wageBase.Mul(cfg.InsuranceRatePercent).Div(hundred).Round(2),
	}
}
