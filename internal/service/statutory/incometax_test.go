package statutory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/statutory"
)

func TestIncomeTax_AprilProjection(t *testing.T) {
	cfg := statutory.Defaults().IncomeTax
	calc := NewIncomeTaxCalculator(&fakeGrossSource{total: decimal.Zero}, newFakeStatRecordRepo())

	// April, 100000/month: projected 1,200,000; taxable 1,125,000.
	// New regime: 20,000 + 30,000 + 18,750 = 68,750; plus 4% cess = 71,500.
	got, err := calc.Calculate(context.Background(), "emp-1", 4, 2025,
		dec(t, "100000"), dec(t, "100000"), decimal.Zero, "", cfg)
	require.NoError(t, err)

	assert.Equal(t, "new", got.Regime)
	assert.Equal(t, "2025-26", got.FiscalYear)
	assert.Equal(t, 12, got.RemainingMonths)
	assert.True(t, dec(t, "1200000").Equal(got.ProjectedAnnual), "projected: got %s", got.ProjectedAnnual)
	assert.True(t, dec(t, "1125000").Equal(got.TaxableIncome), "taxable: got %s", got.TaxableIncome)
	assert.True(t, dec(t, "71500").Equal(got.AnnualTax), "annual: got %s", got.AnnualTax)
	assert.True(t, dec(t, "5958.33").Equal(got.MonthlyWithheld), "monthly: got %s", got.MonthlyWithheld)
}

func TestIncomeTax_RebateZeroesModestIncomes(t *testing.T) {
	cfg := statutory.Defaults().IncomeTax
	calc := NewIncomeTaxCalculator(&fakeGrossSource{total: decimal.Zero}, newFakeStatRecordRepo())

	// 50000/month projects to 600,000; taxable 525,000 is under the
	// 700,000 rebate threshold so the liability vanishes entirely.
	got, err := calc.Calculate(context.Background(), "emp-1", 4, 2025,
		dec(t, "50000"), dec(t, "50000"), decimal.Zero, "", cfg)
	require.NoError(t, err)

	assert.True(t, got.AnnualTax.IsZero())
	assert.True(t, got.MonthlyWithheld.IsZero())
}

func TestIncomeTax_MidYearReconciliation(t *testing.T) {
	cfg := statutory.Defaults().IncomeTax
	records := newFakeStatRecordRepo()
	calc := NewIncomeTaxCalculator(&fakeGrossSource{total: dec(t, "600000")}, records)
	ctx := context.Background()

	// 12,000 already withheld April through September.
	for m := 4; m <= 9; m++ {
		_, err := records.UpsertIncomeTax(ctx, statutory.IncomeTaxRecord{
			EmployeeID: "emp-1", Month: m, Year: 2025,
			FiscalYear: "2025-26", Regime: "new", MonthlyWithheld: dec(t, "2000"),
		})
		require.NoError(t, err)
	}

	// October: 6 actual months of 100,000 behind us, 5 projected ahead.
	got, err := calc.Calculate(ctx, "emp-1", 10, 2025,
		dec(t, "100000"), dec(t, "100000"), decimal.Zero, "", cfg)
	require.NoError(t, err)

	assert.Equal(t, 6, got.RemainingMonths)
	assert.True(t, dec(t, "1200000").Equal(got.ProjectedAnnual), "projected: got %s", got.ProjectedAnnual)
	assert.True(t, dec(t, "12000").Equal(got.TaxToDate), "to date: got %s", got.TaxToDate)
	// (71,500 - 12,000) / 6
	assert.True(t, dec(t, "9916.67").Equal(got.MonthlyWithheld), "monthly: got %s", got.MonthlyWithheld)
}

func TestIncomeTax_OldRegimeExemptions(t *testing.T) {
	cfg := statutory.Defaults().IncomeTax
	calc := NewIncomeTaxCalculator(&fakeGrossSource{total: decimal.Zero}, newFakeStatRecordRepo())

	// Old regime allows the 100,000 exemption claim: taxable
	// 1,200,000 - 50,000 - 100,000 = 1,050,000.
	// Tax: 12,500 + 100,000 + 15,000 = 127,500; with cess 132,600.
	got, err := calc.Calculate(context.Background(), "emp-1", 4, 2025,
		dec(t, "100000"), dec(t, "100000"), dec(t, "100000"), "old", cfg)
	require.NoError(t, err)

	assert.Equal(t, "old", got.Regime)
	assert.True(t, dec(t, "1050000").Equal(got.TaxableIncome), "taxable: got %s", got.TaxableIncome)
	assert.True(t, dec(t, "132600").Equal(got.AnnualTax), "annual: got %s", got.AnnualTax)

	// The new regime ignores the same exemption claim.
	newRegime, err := calc.Calculate(context.Background(), "emp-1", 4, 2025,
		dec(t, "100000"), dec(t, "100000"), dec(t, "100000"), "new", cfg)
	require.NoError(t, err)
	assert.True(t, dec(t, "1125000").Equal(newRegime.TaxableIncome))
}

func TestIncomeTax_OverWithheldClampsToZero(t *testing.T) {
	cfg := statutory.Defaults().IncomeTax
	records := newFakeStatRecordRepo()
	calc := NewIncomeTaxCalculator(&fakeGrossSource{total: dec(t, "1100000")}, records)
	ctx := context.Background()

	// Heavy withholding early in the year, then a salary cut. The monthly
	// figure floors at zero; refunds are a filing concern.
	_, err := records.UpsertIncomeTax(ctx, statutory.IncomeTaxRecord{
		EmployeeID: "emp-1", Month: 4, Year: 2025,
		FiscalYear: "2025-26", Regime: "new", MonthlyWithheld: dec(t, "90000"),
	})
	require.NoError(t, err)

	got, err := calc.Calculate(ctx, "emp-1", 3, 2026,
		dec(t, "10000"), dec(t, "10000"), decimal.Zero, "", cfg)
	require.NoError(t, err)
	assert.True(t, got.MonthlyWithheld.IsZero())
}

func TestIncomeTax_UnknownRegime(t *testing.T) {
	cfg := statutory.Defaults().IncomeTax
	calc := NewIncomeTaxCalculator(&fakeGrossSource{total: decimal.Zero}, newFakeStatRecordRepo())

	_, err := calc.Calculate(context.Background(), "emp-1", 4, 2025,
		dec(t, "100000"), dec(t, "100000"), decimal.Zero, "flat", cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, statutory.ErrRegimeNotFound)
}
