package statutory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/statutory"
)

// FiscalGrossSource supplies the actual fiscal-year-to-date earned gross.
// Satisfied by the payroll record repository.
type FiscalGrossSource interface {
	SumGrossForFiscalYear(ctx context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error)
}

// IncomeTaxResult is the withholding computation for one month.
type IncomeTaxResult struct {
	Regime          string
	FiscalYear      string
	ProjectedAnnual decimal.Decimal
	TaxableIncome   decimal.Decimal
	AnnualTax       decimal.Decimal
	TaxToDate       decimal.Decimal
	RemainingMonths int
	MonthlyWithheld decimal.Decimal
}

// IncomeTaxCalculator projects the annual gross from year-to-date actuals
// plus the current structure, computes the progressive liability, and
// spreads the unpaid remainder over the months left in the fiscal year.
type IncomeTaxCalculator struct {
	gross   FiscalGrossSource
	records statutory.RecordRepository
}

func NewIncomeTaxCalculator(gross FiscalGrossSource, records statutory.RecordRepository) *IncomeTaxCalculator {
	return &IncomeTaxCalculator{gross: gross, records: records}
}

// Calculate computes the month's withholding. monthGross is the earned
// (post-LOP, post-arrears) gross for the month; structureGross the current
// structure's full monthly gross used to project the remaining months;
// exemptions applies only when the regime allows it.
func (c *IncomeTaxCalculator) Calculate(ctx context.Context, employeeID string, month, year int, monthGross, structureGross, exemptions decimal.Decimal, regime string, cfg statutory.IncomeTaxConfig) (IncomeTaxResult, error) {
	if regime == "" {
		regime = cfg.DefaultRegime
	}
	rc, ok := cfg.Regimes[regime]
	if !ok {
		return IncomeTaxResult{}, fmt.Errorf("%w: %s", statutory.ErrRegimeNotFound, regime)
	}

	fy := statutory.FiscalYear(month, year)
	fiscalIndex := statutory.FiscalMonthIndex(month)
	// Months left including the current one; withholding divides by this.
	remaining := 12 - fiscalIndex + 1

	ytdGross, err := c.gross.SumGrossForFiscalYear(ctx, employeeID, fy, month, year)
	if err != nil {
		return IncomeTaxResult{}, fmt.Errorf("failed to sum fiscal year gross: %w", err)
	}

	monthsAfter := decimal.NewFromInt(int64(12 - fiscalIndex))
	projected := ytdGross.Add(monthGross).Add(structureGross.Mul(monthsAfter))

	taxable := projected.Sub(rc.StandardDeduction)
	if rc.ExemptionsAllowed {
		taxable = taxable.Sub(exemptions)
	}
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	annualTax := progressiveTax(taxable, rc.Slabs)

	// Full rebate below the threshold.
	if taxable.LessThanOrEqual(rc.RebateThreshold) {
		annualTax = decimal.Zero
	}

	if annualTax.IsPositive() {
		surchargeRate := bandRate(projected, rc.Surcharge)
		annualTax = annualTax.Add(annualTax.Mul(surchargeRate).Div(hundred))
		annualTax = annualTax.Add(annualTax.Mul(rc.CessPercent).Div(hundred))
		annualTax = annualTax.Round(2)
	}

	taxToDate, err := c.records.SumIncomeTaxForFiscalYear(ctx, employeeID, fy, month, year)
	if err != nil {
		return IncomeTaxResult{}, fmt.Errorf("failed to sum income tax year-to-date: %w", err)
	}

	monthly := annualTax.Sub(taxToDate).Div(decimal.NewFromInt(int64(remaining))).Round(2)
	if monthly.IsNegative() {
		monthly = decimal.Zero
	}

	return IncomeTaxResult{
		Regime:          regime,
		FiscalYear:      fy,
		ProjectedAnnual: projected,
		TaxableIncome:   taxable,
		AnnualTax:       annualTax,
		TaxToDate:       taxToDate,
		RemainingMonths: remaining,
		MonthlyWithheld: monthly,
	}, nil
}

// progressiveTax walks the slab bands bottom-up.
func progressiveTax(taxable decimal.Decimal, slabs []statutory.RateSlab) decimal.Decimal {
	tax := decimal.Zero
	prev := decimal.Zero
	for _, slab := range slabs {
		upper := taxable
		if slab.UpTo != nil && slab.UpTo.LessThan(taxable) {
			upper = *slab.UpTo
		}
		if upper.GreaterThan(prev) {
			tax = tax.Add(upper.Sub(prev).Mul(slab.RatePercent).Div(hundred))
		}
		if slab.UpTo == nil || slab.UpTo.GreaterThanOrEqual(taxable) {
			break
		}
		prev = *slab.UpTo
	}
	return tax
}

// bandRate returns the flat rate of the band total falls in.
func bandRate(total decimal.Decimal, bands []statutory.RateSlab) decimal.Decimal {
	for _, b := range bands {
		if b.UpTo == nil || total.LessThanOrEqual(*b.UpTo) {
			return b.RatePercent
		}
	}
	return decimal.Zero
}
