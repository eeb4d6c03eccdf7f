package statutory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Config is a versioned snapshot of statutory rates, ceilings and slabs.
// The provider caches it with a TTL and falls back to Defaults() when the
// configuration store is unreachable.
type Config struct {
	Version    int              `json:"version"`
	PF         PFConfig         `json:"provident_fund"`
	Health     HealthConfig     `json:"health_contribution"`
	PayrollTax PayrollTaxConfig `json:"payroll_tax"`
	IncomeTax  IncomeTaxConfig  `json:"income_tax"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// ConfigSource records where the active snapshot came from, for the
// calculation log.
type ConfigSource string

const (
	ConfigSourceStore    ConfigSource = "store"
	ConfigSourceFallback ConfigSource = "fallback_defaults"
)

type PFConfig struct {
	// Rates are percentages of the PF wage base (basic + DA).
	EmployeeRatePercent  decimal.Decimal `json:"employee_rate_percent"`
	EmployerRatePercent  decimal.Decimal `json:"employer_rate_percent"`
	PensionRatePercent   decimal.Decimal `json:"pension_rate_percent"`
	AdminRatePercent     decimal.Decimal `json:"admin_rate_percent"`
	InsuranceRatePercent decimal.Decimal `json:"insurance_rate_percent"`
	// PensionWageCeiling caps the wage base the pension portion of the
	// employer contribution is computed on.
	PensionWageCeiling decimal.Decimal `json:"pension_wage_ceiling"`
	// EligibilityWageCeiling is the wage base above which membership
	// becomes optional (employee may opt out).
	EligibilityWageCeiling decimal.Decimal `json:"eligibility_wage_ceiling"`
}

type HealthConfig struct {
	EmployeeRatePercent decimal.Decimal `json:"employee_rate_percent"`
	EmployerRatePercent decimal.Decimal `json:"employer_rate_percent"`
	// GrossThreshold is the monthly gross at or below which the employee
	// is eligible; eligibility locks at the start of each 6-month period.
	GrossThreshold decimal.Decimal `json:"gross_threshold"`
}

// PayrollTaxSlab maps a monthly gross band to a flat monthly amount.
// MaxGross nil means unbounded.
type PayrollTaxSlab struct {
	MinGross decimal.Decimal  `json:"min_gross"`
	MaxGross *decimal.Decimal `json:"max_gross,omitempty"`
	Amount   decimal.Decimal  `json:"amount"`
}

type StatePayrollTax struct {
	Slabs     []PayrollTaxSlab `json:"slabs"`
	AnnualCap decimal.Decimal  `json:"annual_cap"`
}

type PayrollTaxConfig struct {
	// States keys are branch state codes. DefaultState is used when a
	// branch's state has no slab table; the fallback is recorded in the
	// calculation log.
	States       map[string]StatePayrollTax `json:"states"`
	DefaultState string                     `json:"default_state"`
}

// RateSlab is one progressive income-tax band. UpTo nil means unbounded.
type RateSlab struct {
	UpTo        *decimal.Decimal `json:"up_to,omitempty"`
	RatePercent decimal.Decimal  `json:"rate_percent"`
}

type RegimeConfig struct {
	Slabs             []RateSlab      `json:"slabs"`
	StandardDeduction decimal.Decimal `json:"standard_deduction"`
	// RebateThreshold zeroes the liability entirely for taxable income at
	// or below it.
	RebateThreshold decimal.Decimal `json:"rebate_threshold"`
	// Surcharge bands apply to the computed tax by total income.
	Surcharge   []RateSlab      `json:"surcharge"`
	CessPercent decimal.Decimal `json:"cess_percent"`
	// ExemptionsAllowed permits regime-conditional exemptions (old regime
	// only).
	ExemptionsAllowed bool `json:"exemptions_allowed"`
}

type IncomeTaxConfig struct {
	Regimes       map[string]RegimeConfig `json:"regimes"`
	DefaultRegime string                  `json:"default_regime"`
}

// HealthPeriodLock pins an employee's health-contribution eligibility for a
// fixed 6-month period. Once written it never changes, even if the salary
// crosses the threshold mid-period.
type HealthPeriodLock struct {
	ID          string
	EmployeeID  string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Eligible    bool
	GrossAtLock decimal.Decimal
	CreatedAt   time.Time
}

// ---- statutory sub-records, one per (employee, month, year) each ----

type PFContribution struct {
	ID                string
	EmployeeID        string
	Month             int
	Year              int
	WageBase          decimal.Decimal
	EmployeeAmount    decimal.Decimal
	EmployerPension   decimal.Decimal
	EmployerRemainder decimal.Decimal
	AdminCharge       decimal.Decimal
	InsuranceCharge   decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type HealthContribution struct {
	ID             string
	EmployeeID     string
	Month          int
	Year           int
	Eligible       bool
	MonthGross     decimal.Decimal
	EmployeeAmount decimal.Decimal
	EmployerAmount decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PayrollTaxRecord struct {
	ID         string
	EmployeeID string
	Month      int
	Year       int
	StateCode  string
	FiscalYear string
	Amount     decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type IncomeTaxRecord struct {
	ID              string
	EmployeeID      string
	Month           int
	Year            int
	FiscalYear      string
	Regime          string
	ProjectedAnnual decimal.Decimal
	AnnualTax       decimal.Decimal
	TaxToDate       decimal.Decimal
	MonthlyWithheld decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ---- fiscal-year and contribution-period helpers ----

// FiscalYear returns the April–March fiscal year label for a period,
// e.g. (4, 2025) -> "2025-26", (1, 2026) -> "2025-26".
func FiscalYear(month, year int) string {
	start := year
	if month < 4 {
		start = year - 1
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// FiscalMonthIndex returns the 1-based position of the month within the
// fiscal year: April = 1 ... March = 12.
func FiscalMonthIndex(month int) int {
	if month >= 4 {
		return month - 3
	}
	return month + 9
}

// HealthPeriodStart returns the start of the fixed 6-month contribution
// period containing the given payroll period (Apr 1 or Oct 1).
func HealthPeriodStart(month, year int) time.Time {
	switch {
	case month >= 4 && month <= 9:
		return time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	case month >= 10:
		return time.Date(year, time.October, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(year-1, time.October, 1, 0, 0, 0, 0, time.UTC)
	}
}

// HealthPeriodEnd returns the last day of the contribution period starting
// at start.
func HealthPeriodEnd(start time.Time) time.Time {
	return start.AddDate(0, 6, 0).AddDate(0, 0, -1)
}
