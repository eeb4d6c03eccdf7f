package statutory

import (
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// Defaults returns the compiled-in statutory snapshot used when the
// configuration store is unreachable. Values track the published rates for
// the current fiscal year; the store version supersedes them whenever it
// can be read.
func Defaults() Config {
	return Config{
		Version: 0,
		PF: PFConfig{
			EmployeeRatePercent:    dec("12"),
			EmployerRatePercent:    dec("12"),
			PensionRatePercent:     dec("8.33"),
			AdminRatePercent:       dec("0.5"),
			InsuranceRatePercent:   dec("0.5"),
			PensionWageCeiling:     dec("15000"),
			EligibilityWageCeiling: dec("15000"),
		},
		Health: HealthConfig{
			EmployeeRatePercent: dec("0.75"),
			EmployerRatePercent: dec("3.25"),
			GrossThreshold:      dec("21000"),
		},
		PayrollTax: PayrollTaxConfig{
			DefaultState: "KA",
			States: map[string]StatePayrollTax{
				"KA": {
					AnnualCap: dec("2400"),
					Slabs: []PayrollTaxSlab{
						{MinGross: dec("0"), MaxGross: decPtr("24999.99"), Amount: dec("0")},
						{MinGross: dec("25000"), MaxGross: nil, Amount: dec("200")},
					},
				},
				"MH": {
					AnnualCap: dec("2500"),
					Slabs: []PayrollTaxSlab{
						{MinGross: dec("0"), MaxGross: decPtr("7500"), Amount: dec("0")},
						{MinGross: dec("7500.01"), MaxGross: decPtr("10000"), Amount: dec("175")},
						{MinGross: dec("10000.01"), MaxGross: nil, Amount: dec("200")},
					},
				},
				"TN": {
					AnnualCap: dec("2500"),
					Slabs: []PayrollTaxSlab{
						{MinGross: dec("0"), MaxGross: decPtr("21000"), Amount: dec("0")},
						{MinGross: dec("21000.01"), MaxGross: decPtr("30000"), Amount: dec("135")},
						{MinGross: dec("30000.01"), MaxGross: decPtr("45000"), Amount: dec("315")},
						{MinGross: dec("45000.01"), MaxGross: decPtr("60000"), Amount: dec("690")},
						{MinGross: dec("60000.01"), MaxGross: decPtr("75000"), Amount: dec("1025")},
						{MinGross: dec("75000.01"), MaxGross: nil, Amount: dec("1250")},
					},
				},
			},
		},
		IncomeTax: IncomeTaxConfig{
			DefaultRegime: "new",
			Regimes: map[string]RegimeConfig{
				"new": {
					StandardDeduction: dec("75000"),
					RebateThreshold:   dec("700000"),
					CessPercent:       dec("4"),
					ExemptionsAllowed: false,
					Slabs: []RateSlab{
						{UpTo: decPtr("300000"), RatePercent: dec("0")},
						{UpTo: decPtr("700000"), RatePercent: dec("5")},
						{UpTo: decPtr("1000000"), RatePercent: dec("10")},
						{UpTo: decPtr("1200000"), RatePercent: dec("15")},
						{UpTo: decPtr("1500000"), RatePercent: dec("20")},
						{UpTo: nil, RatePercent: dec("30")},
					},
					Surcharge: []RateSlab{
						{UpTo: decPtr("5000000"), RatePercent: dec("0")},
						{UpTo: decPtr("10000000"), RatePercent: dec("10")},
						{UpTo: decPtr("20000000"), RatePercent: dec("15")},
						{UpTo: nil, RatePercent: dec("25")},
					},
				},
				"old": {
					StandardDeduction: dec("50000"),
					RebateThreshold:   dec("500000"),
					CessPercent:       dec("4"),
					ExemptionsAllowed: true,
					Slabs: []RateSlab{
						{UpTo: decPtr("250000"), RatePercent: dec("0")},
						{UpTo: decPtr("500000"), RatePercent: dec("5")},
						{UpTo: decPtr("1000000"), RatePercent: dec("20")},
						{UpTo: nil, RatePercent: dec("30")},
					},
					Surcharge: []RateSlab{
						{UpTo: decPtr("5000000"), RatePercent: dec("0")},
						{UpTo: decPtr("10000000"), RatePercent: dec("10")},
						{UpTo: decPtr("20000000"), RatePercent: dec("15")},
						{UpTo: nil, RatePercent: dec("37")},
					},
				},
			},
		},
		UpdatedAt: time.Time{},
	}
}
