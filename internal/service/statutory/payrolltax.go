package statutory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/statutory"
)

// PayrollTaxResult is the state payroll (professional) tax for one month.
type PayrollTaxResult struct {
	StateCode string
	// UsedDefaultState flags the documented fallback when the branch's
	// state has no slab table; surfaced in the calculation log.
	UsedDefaultState bool
	SlabAmount       decimal.Decimal
	// Amount is the slab amount after annual cap enforcement.
	Amount     decimal.Decimal
	FiscalYear string
	YearToDate decimal.Decimal
	AnnualCap  decimal.Decimal
}

// PayrollTaxCalculator looks up the state's monthly slab and trims the
// amount so the fiscal-year cumulative total never exceeds the annual cap,
// regardless of reprocessing order.
type PayrollTaxCalculator struct {
	records statutory.RecordRepository
}

func NewPayrollTaxCalculator(records statutory.RecordRepository) *PayrollTaxCalculator {
	return &PayrollTaxCalculator{records: records}
}

func (c *PayrollTaxCalculator) Calculate(ctx context.Context, employeeID, stateCode string, month, year int, monthGross decimal.Decimal, cfg statutory.PayrollTaxConfig) (PayrollTaxResult, error) {
	result := PayrollTaxResult{
		StateCode:  stateCode,
		FiscalYear: statutory.FiscalYear(month, year),
	}

	state, ok := cfg.States[stateCode]
	if !ok {
		fallback, fbOK := cfg.States[cfg.DefaultState]
		if !fbOK {
			return PayrollTaxResult{}, fmt.Errorf("%w: %s (no default either)", statutory.ErrStateNotConfigured, stateCode)
		}
		state = fallback
		result.StateCode = cfg.DefaultState
		result.UsedDefaultState = true
	}

	for _, slab := range state.Slabs {
		if monthGross.LessThan(slab.MinGross) {
			continue
		}
		if slab.MaxGross != nil && monthGross.GreaterThan(*slab.MaxGross) {
			continue
		}
		result.SlabAmount = slab.Amount
		break
	}

	ytd, err := c.records.SumPayrollTaxForFiscalYear(ctx, employeeID, result.FiscalYear, month, year)
	if err != nil {
		return PayrollTaxResult{}, fmt.Errorf("failed to sum payroll tax year-to-date: %w", err)
	}

	result.YearToDate = ytd
	result.AnnualCap = state.AnnualCap

	remaining := state.AnnualCap.Sub(ytd)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	result.Amount = result.SlabAmount
	if result.Amount.GreaterThan(remaining) {
		result.Amount = remaining
	}

	return result, nil
}
