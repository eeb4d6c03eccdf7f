package statutory

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/statutory"
)

// HealthResult is the health insurance contribution for one month.
type HealthResult struct {
	Eligible bool
	// LockedAtPeriodStart reports whether this call created the period
	// lock (first payroll of the 6-month period) or reused an existing one.
	LockedAtPeriodStart bool
	MonthGross          decimal.Decimal
	EmployeeAmount      decimal.Decimal
	EmployerAmount      decimal.Decimal
}

// HealthContributionCalculator computes the month's contribution with
// period-locked eligibility: the decision is taken at the first payroll of
// each fixed 6-month period and reused for the rest of it, regardless of
// salary drift.
type HealthContributionCalculator struct {
	locks statutory.HealthLockRepository
}

func NewHealthContributionCalculator(locks statutory.HealthLockRepository) *HealthContributionCalculator {
	return &HealthContributionCalculator{locks: locks}
}

// Calculate resolves (or creates) the period lock from fullMonthGross and,
// when eligible, applies the rates to monthGross — the earned gross of the
// month being processed, not the locked month's.
func (c *HealthContributionCalculator) Calculate(ctx context.Context, employeeID string, month, year int, fullMonthGross, monthGross decimal.Decimal, cfg statutory.HealthConfig) (HealthResult, error) {
	periodStart := statutory.HealthPeriodStart(month, year)

	lock, err := c.locks.GetLock(ctx, employeeID, periodStart)
	created := false
	if err != nil {
		if !errors.Is(err, statutory.ErrPeriodLockNotFound) {
			return HealthResult{}, fmt.Errorf("failed to resolve health period lock: %w", err)
		}
		lock, err = c.locks.CreateLock(ctx, statutory.HealthPeriodLock{
			EmployeeID:  employeeID,
			PeriodStart: periodStart,
			PeriodEnd:   statutory.HealthPeriodEnd(periodStart),
			Eligible:    fullMonthGross.LessThanOrEqual(cfg.GrossThreshold),
			GrossAtLock: fullMonthGross,
		})
		if err != nil {
			return HealthResult{}, fmt.Errorf("failed to create health period lock: %w", err)
		}
		created = true
	}

	result := HealthResult{
		Eligible:            lock.Eligible,
		LockedAtPeriodStart: created,
		MonthGross:          monthGross,
	}
	if !lock.Eligible {
		return result, nil
	}

	result.EmployeeAmount = monthGross.Mul(cfg.EmployeeRatePercent).Div(hundred).Round(2)
	result.EmployerAmount = monthGross.Mul(cfg.EmployerRatePercent).Div(hundred).Round(2)

	return result, nil
}
