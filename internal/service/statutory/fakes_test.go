package statutory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/statutory"
)

type fakeHealthLockRepo struct {
	locks       map[string]statutory.HealthPeriodLock
	createCalls int
}

func newFakeHealthLockRepo() *fakeHealthLockRepo {
	return &fakeHealthLockRepo{locks: make(map[string]statutory.HealthPeriodLock)}
}

func lockKey(employeeID string, periodStart time.Time) string {
	return employeeID + "|" + periodStart.Format("2006-01-02")
}

func (r *fakeHealthLockRepo) GetLock(_ context.Context, employeeID string, periodStart time.Time) (statutory.HealthPeriodLock, error) {
	lock, ok := r.locks[lockKey(employeeID, periodStart)]
	if !ok {
		return statutory.HealthPeriodLock{}, statutory.ErrPeriodLockNotFound
	}
	return lock, nil
}

func (r *fakeHealthLockRepo) CreateLock(_ context.Context, lock statutory.HealthPeriodLock) (statutory.HealthPeriodLock, error) {
	r.createCalls++
	key := lockKey(lock.EmployeeID, lock.PeriodStart)
	if existing, ok := r.locks[key]; ok {
		return existing, nil
	}
	lock.ID = uuid.NewString()
	lock.CreatedAt = time.Now()
	r.locks[key] = lock
	return lock, nil
}

type fakeStatRecordRepo struct {
	pf     map[string]statutory.PFContribution
	health map[string]statutory.HealthContribution
	ptax   map[string]statutory.PayrollTaxRecord
	itax   map[string]statutory.IncomeTaxRecord
}

func newFakeStatRecordRepo() *fakeStatRecordRepo {
	return &fakeStatRecordRepo{
		pf:     make(map[string]statutory.PFContribution),
		health: make(map[string]statutory.HealthContribution),
		ptax:   make(map[string]statutory.PayrollTaxRecord),
		itax:   make(map[string]statutory.IncomeTaxRecord),
	}
}

func periodKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s|%04d-%02d", employeeID, year, month)
}

func (r *fakeStatRecordRepo) UpsertPFContribution(_ context.Context, rec statutory.PFContribution) (statutory.PFContribution, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.pf[periodKey(rec.EmployeeID, rec.Month, rec.Year)] = rec
	return rec, nil
}

func (r *fakeStatRecordRepo) UpsertHealthContribution(_ context.Context, rec statutory.HealthContribution) (statutory.HealthContribution, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.health[periodKey(rec.EmployeeID, rec.Month, rec.Year)] = rec
	return rec, nil
}

func (r *fakeStatRecordRepo) UpsertPayrollTax(_ context.Context, rec statutory.PayrollTaxRecord) (statutory.PayrollTaxRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.ptax[periodKey(rec.EmployeeID, rec.Month, rec.Year)] = rec
	return rec, nil
}

func (r *fakeStatRecordRepo) UpsertIncomeTax(_ context.Context, rec statutory.IncomeTaxRecord) (statutory.IncomeTaxRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.itax[periodKey(rec.EmployeeID, rec.Month, rec.Year)] = rec
	return rec, nil
}

func (r *fakeStatRecordRepo) SumPayrollTaxForFiscalYear(_ context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, rec := range r.ptax {
		if rec.EmployeeID != employeeID || rec.FiscalYear != fiscalYear {
			continue
		}
		if rec.Month == excludeMonth && rec.Year == excludeYear {
			continue
		}
		total = total.Add(rec.Amount)
	}
	return total, nil
}

func (r *fakeStatRecordRepo) SumIncomeTaxForFiscalYear(_ context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, rec := range r.itax {
		if rec.EmployeeID != employeeID || rec.FiscalYear != fiscalYear {
			continue
		}
		if rec.Month == excludeMonth && rec.Year == excludeYear {
			continue
		}
		total = total.Add(rec.MonthlyWithheld)
	}
	return total, nil
}

type fakeGrossSource struct {
	total decimal.Decimal
}

func (f *fakeGrossSource) SumGrossForFiscalYear(_ context.Context, _, _ string, _, _ int) (decimal.Decimal, error) {
	return f.total, nil
}

type fakeConfigRepo struct {
	cfg   statutory.Config
	err   error
	calls int
}

func (r *fakeConfigRepo) GetLatest(_ context.Context) (statutory.Config, error) {
	r.calls++
	if r.err != nil {
		return statutory.Config{}, r.err
	}
	return r.cfg, nil
}
