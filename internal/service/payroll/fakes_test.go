package payroll

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/branch"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/employee"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/leave"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/salary"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/statutory"
	"github.com/paygrid-hr/payroll-backend-go/internal/repository/postgresql"
	attendancesvc "github.com/paygrid-hr/payroll-backend-go/internal/service/attendance"
	leavesvc "github.com/paygrid-hr/payroll-backend-go/internal/service/leave"
	statutorysvc "github.com/paygrid-hr/payroll-backend-go/internal/service/statutory"
)

// In-memory fakes backing the pipeline tests. All of them guard their maps
// with a mutex because the branch run fans processing out over goroutines.

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[string]employee.Employee
	byBranch  map[string][]string
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		employees: make(map[string]employee.Employee),
		byBranch:  make(map[string][]string),
	}
}

func (f *fakeEmployeeRepo) put(emp employee.Employee) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.employees[emp.ID] = emp
	if emp.BranchID != "" {
		f.byBranch[emp.BranchID] = append(f.byBranch[emp.BranchID], emp.ID)
	}
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetActiveByBranchID(_ context.Context, branchID string) ([]employee.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []employee.Employee
	for _, id := range f.byBranch[branchID] {
		if emp, ok := f.employees[id]; ok && emp.IsActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

type fakeBranchRepo struct {
	branches map[string]branch.Branch
	shifts   map[string]branch.Shift
}

func (f *fakeBranchRepo) GetByID(_ context.Context, id string) (branch.Branch, error) {
	br, ok := f.branches[id]
	if !ok {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return br, nil
}

func (f *fakeBranchRepo) GetShiftByID(_ context.Context, id string) (branch.Shift, error) {
	sh, ok := f.shifts[id]
	if !ok {
		return branch.Shift{}, branch.ErrShiftNotFound
	}
	return sh, nil
}

type fakeHolidayRepo struct {
	holidays []branch.Holiday
}

func (f *fakeHolidayRepo) ListForPeriod(_ context.Context, branchID string, from, to time.Time) ([]branch.Holiday, error) {
	var out []branch.Holiday
	for _, h := range f.holidays {
		if h.BranchID == branchID && !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	mu   sync.Mutex
	days map[string][]attendance.DayRecord
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{days: make(map[string][]attendance.DayRecord)}
}

func (f *fakeAttendanceRepo) add(days ...attendance.DayRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range days {
		f.days[d.EmployeeID] = append(f.days[d.EmployeeID], d)
	}
}

func (f *fakeAttendanceRepo) ListForPeriod(_ context.Context, employeeID string, from, to time.Time) ([]attendance.DayRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.DayRecord
	for _, d := range f.days[employeeID] {
		if !d.Date.Before(from) && !d.Date.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries []leave.LedgerEntry
	seq     int
}

func (f *fakeLedgerRepo) Append(_ context.Context, entry leave.LedgerEntry) (leave.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry.PayrollRecordID != nil && entry.Type == leave.EntryTypeDeduction {
		for _, e := range f.entries {
			if e.Type == leave.EntryTypeDeduction && e.PayrollRecordID != nil &&
				*e.PayrollRecordID == *entry.PayrollRecordID && e.LeaveType == entry.LeaveType {
				return leave.LedgerEntry{}, leave.ErrDuplicateDeduction
			}
		}
	}
	f.seq++
	entry.ID = fmt.Sprintf("entry-%d", f.seq)
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeLedgerRepo) Aggregate(_ context.Context, employeeID, leaveType string, excludeRecordID *string) (leave.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var b leave.Balance
	for _, e := range f.entries {
		if e.EmployeeID != employeeID || e.LeaveType != leaveType {
			continue
		}
		if excludeRecordID != nil && e.Type == leave.EntryTypeDeduction &&
			e.PayrollRecordID != nil && *e.PayrollRecordID == *excludeRecordID {
			continue
		}
		switch e.Type {
		case leave.EntryTypeAllocation:
			b.Allocations += e.Days
		case leave.EntryTypeCorrection:
			b.Corrections += e.Days
		case leave.EntryTypeDeduction:
			b.Deductions += e.Days
		case leave.EntryTypeReversion:
			b.Reversions += e.Days
		}
	}
	return b, nil
}

func (f *fakeLedgerRepo) DeleteByPayrollRecord(_ context.Context, payrollRecordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.Type == leave.EntryTypeDeduction && e.PayrollRecordID != nil && *e.PayrollRecordID == payrollRecordID {
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return nil
}

func (f *fakeLedgerRepo) HasEntryWithReason(_ context.Context, employeeID string, entryType leave.EntryType, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.EmployeeID == employeeID && e.Type == entryType && e.Reason == reason {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLedgerRepo) entriesFor(employeeID string) []leave.LedgerEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []leave.LedgerEntry
	for _, e := range f.entries {
		if e.EmployeeID == employeeID {
			out = append(out, e)
		}
	}
	return out
}

type fakeStructureRepo struct {
	mu         sync.Mutex
	structures []salary.Structure
}

func (f *fakeStructureRepo) add(sts ...salary.Structure) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.structures = append(f.structures, sts...)
}

func (f *fakeStructureRepo) GetEffectiveForPeriod(_ context.Context, employeeID string, periodEnd time.Time) (salary.Structure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *salary.Structure
	for i, st := range f.structures {
		if st.EmployeeID != employeeID || st.EffectiveFrom.After(periodEnd) {
			continue
		}
		if best == nil || st.Version > best.Version {
			best = &f.structures[i]
		}
	}
	if best == nil {
		return salary.Structure{}, salary.ErrStructureNotFound
	}
	return *best, nil
}

func (f *fakeStructureRepo) GetEarliest(_ context.Context, employeeID string) (salary.Structure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *salary.Structure
	for i, st := range f.structures {
		if st.EmployeeID != employeeID {
			continue
		}
		if best == nil || st.Version < best.Version {
			best = &f.structures[i]
		}
	}
	if best == nil {
		return salary.Structure{}, salary.ErrStructureNotFound
	}
	return *best, nil
}

func (f *fakeStructureRepo) GetPreviousVersion(_ context.Context, employeeID string, beforeVersion int) (salary.Structure, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *salary.Structure
	for i, st := range f.structures {
		if st.EmployeeID != employeeID || st.Version >= beforeVersion {
			continue
		}
		if best == nil || st.Version > best.Version {
			best = &f.structures[i]
		}
	}
	if best == nil {
		return salary.Structure{}, salary.ErrStructureNotFound
	}
	return *best, nil
}

type fakeArrearsRepo struct {
	mu          sync.Mutex
	adjustments []salary.ArrearsAdjustment
	seq         int
}

func (f *fakeArrearsRepo) Create(_ context.Context, adj salary.ArrearsAdjustment) (salary.ArrearsAdjustment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.adjustments {
		if a.FromStructureID == adj.FromStructureID && a.ToStructureID == adj.ToStructureID &&
			a.Status != salary.ArrearsStatusCancelled {
			return salary.ArrearsAdjustment{}, salary.ErrArrearsExists
		}
	}
	f.seq++
	adj.ID = fmt.Sprintf("arrears-%d", f.seq)
	f.adjustments = append(f.adjustments, adj)
	return adj, nil
}

func (f *fakeArrearsRepo) GetByTransition(_ context.Context, fromStructureID, toStructureID string) (salary.ArrearsAdjustment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.adjustments {
		if a.FromStructureID == fromStructureID && a.ToStructureID == toStructureID &&
			a.Status != salary.ArrearsStatusCancelled {
			return a, nil
		}
	}
	return salary.ArrearsAdjustment{}, salary.ErrArrearsNotFound
}

func (f *fakeArrearsRepo) MarkApplied(_ context.Context, id string, month, year int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.adjustments {
		if a.ID == id {
			m, y := month, year
			f.adjustments[i].Status = salary.ArrearsStatusApplied
			f.adjustments[i].AppliedMonth = &m
			f.adjustments[i].AppliedYear = &y
			return nil
		}
	}
	return salary.ErrArrearsNotFound
}

func (f *fakeArrearsRepo) get(id string) (salary.ArrearsAdjustment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.adjustments {
		if a.ID == id {
			return a, true
		}
	}
	return salary.ArrearsAdjustment{}, false
}

type fakeHealthLockRepo struct {
	mu    sync.Mutex
	locks map[string]statutory.HealthPeriodLock
	seq   int
}

func newFakeHealthLockRepo() *fakeHealthLockRepo {
	return &fakeHealthLockRepo{locks: make(map[string]statutory.HealthPeriodLock)}
}

func healthLockKey(employeeID string, periodStart time.Time) string {
	return employeeID + "|" + periodStart.Format("2006-01-02")
}

func (f *fakeHealthLockRepo) GetLock(_ context.Context, employeeID string, periodStart time.Time) (statutory.HealthPeriodLock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lock, ok := f.locks[healthLockKey(employeeID, periodStart)]
	if !ok {
		return statutory.HealthPeriodLock{}, statutory.ErrPeriodLockNotFound
	}
	return lock, nil
}

func (f *fakeHealthLockRepo) CreateLock(_ context.Context, lock statutory.HealthPeriodLock) (statutory.HealthPeriodLock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := healthLockKey(lock.EmployeeID, lock.PeriodStart)
	if existing, ok := f.locks[key]; ok {
		return existing, nil
	}
	f.seq++
	lock.ID = fmt.Sprintf("health-lock-%d", f.seq)
	f.locks[key] = lock
	return lock, nil
}

type fakeStatRecordRepo struct {
	mu     sync.Mutex
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

func (f *fakeStatRecordRepo) UpsertPFContribution(_ context.Context, rec statutory.PFContribution) (statutory.PFContribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pf[periodKey(rec.EmployeeID, rec.Month, rec.Year)] = rec
	return rec, nil
}

func (f *fakeStatRecordRepo) UpsertHealthContribution(_ context.Context, rec statutory.HealthContribution) (statutory.HealthContribution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.health[periodKey(rec.EmployeeID, rec.Month, rec.Year)] = rec
	return rec, nil
}

func (f *fakeStatRecordRepo) UpsertPayrollTax(_ context.Context, rec statutory.PayrollTaxRecord) (statutory.PayrollTaxRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ptax[periodKey(rec.EmployeeID, rec.Month, rec.Year)] = rec
	return rec, nil
}

func (f *fakeStatRecordRepo) UpsertIncomeTax(_ context.Context, rec statutory.IncomeTaxRecord) (statutory.IncomeTaxRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itax[periodKey(rec.EmployeeID, rec.Month, rec.Year)] = rec
	return rec, nil
}

func (f *fakeStatRecordRepo) SumPayrollTaxForFiscalYear(_ context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, rec := range f.ptax {
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

func (f *fakeStatRecordRepo) SumIncomeTaxForFiscalYear(_ context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, rec := range f.itax {
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

type fakeRecordRepo struct {
	mu      sync.Mutex
	records []payroll.Record
	seq     int
}

func (f *fakeRecordRepo) Create(_ context.Context, record payroll.Record) (payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EmployeeID == record.EmployeeID && r.Month == record.Month && r.Year == record.Year &&
			r.Status != payroll.StatusSuperseded {
			return payroll.Record{}, payroll.ErrDuplicateActiveRecord
		}
	}
	f.seq++
	record.ID = fmt.Sprintf("record-%d", f.seq)
	record.CreatedAt = time.Now()
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id string) (payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return payroll.Record{}, payroll.ErrRecordNotFound
}

func (f *fakeRecordRepo) GetActiveByPeriod(_ context.Context, employeeID string, month, year int) (payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.Month == month && r.Year == year &&
			r.Status != payroll.StatusSuperseded {
			return r, nil
		}
	}
	return payroll.Record{}, payroll.ErrRecordNotFound
}

func (f *fakeRecordRepo) Supersede(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if r.ID == id && r.Status != payroll.StatusSuperseded {
			f.records[i].Status = payroll.StatusSuperseded
			return nil
		}
	}
	return payroll.ErrRecordNotFound
}

func (f *fakeRecordRepo) ListByBranchPeriod(_ context.Context, branchID string, month, year int) ([]payroll.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.Record
	for _, r := range f.records {
		if r.BranchID == branchID && r.Month == month && r.Year == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) SumGrossForFiscalYear(_ context.Context, employeeID, fiscalYear string, excludeMonth, excludeYear int) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := decimal.Zero
	for _, r := range f.records {
		if r.EmployeeID != employeeID || r.Status == payroll.StatusSuperseded {
			continue
		}
		if statutory.FiscalYear(r.Month, r.Year) != fiscalYear {
			continue
		}
		if r.Month == excludeMonth && r.Year == excludeYear {
			continue
		}
		total = total.Add(r.GrossEarned)
	}
	return total, nil
}

func (f *fakeRecordRepo) ListMonthsForStructure(_ context.Context, employeeID, structureID string, from time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	for _, r := range f.records {
		if r.EmployeeID != employeeID || r.StructureID != structureID || r.Status == payroll.StatusSuperseded {
			continue
		}
		periodStart := time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
		if periodStart.Before(from) {
			continue
		}
		seen[periodStart.Format("2006-01")] = true
	}
	months := make([]string, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Strings(months)
	return months, nil
}

func (f *fakeRecordRepo) activeFor(employeeID string, month, year int) []payroll.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID && r.Month == month && r.Year == year {
			out = append(out, r)
		}
	}
	return out
}

type fakeRunRepo struct {
	mu          sync.Mutex
	runs        []payroll.Run
	failReasons map[string]string
	records     *fakeRecordRepo
	seq         int
}

func newFakeRunRepo(records *fakeRecordRepo) *fakeRunRepo {
	return &fakeRunRepo{records: records, failReasons: make(map[string]string)}
}

func (f *fakeRunRepo) Create(_ context.Context, run payroll.Run) (payroll.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.runs {
		if r.BranchID == run.BranchID && r.Month == run.Month && r.Year == run.Year &&
			r.Status == payroll.RunStatusRunning {
			return payroll.Run{}, payroll.ErrRunAlreadyActive
		}
	}
	f.seq++
	run.ID = fmt.Sprintf("run-%d", f.seq)
	run.StartedAt = time.Now()
	f.runs = append(f.runs, run)
	return run, nil
}

func (f *fakeRunRepo) GetByID(_ context.Context, id string) (payroll.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return payroll.Run{}, payroll.ErrRunNotFound
}

func (f *fakeRunRepo) Complete(_ context.Context, run payroll.Run) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.runs {
		if r.ID == run.ID {
			now := time.Now()
			run.Status = payroll.RunStatusCompleted
			run.StartedAt = r.StartedAt
			run.CompletedAt = &now
			f.runs[i] = run
			return nil
		}
	}
	return payroll.ErrRunNotFound
}

func (f *fakeRunRepo) Fail(_ context.Context, id string, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.runs {
		if r.ID == id {
			f.runs[i].Status = payroll.RunStatusFailed
			f.failReasons[id] = reason
			return nil
		}
	}
	return payroll.ErrRunNotFound
}

func (f *fakeRunRepo) SumTotalsForPeriod(ctx context.Context, branchID string, month, year int) (payroll.BranchTotals, error) {
	records, err := f.records.ListByBranchPeriod(ctx, branchID, month, year)
	if err != nil {
		return payroll.BranchTotals{}, err
	}
	totals := payroll.BranchTotals{
		Gross:      decimal.Zero,
		Deductions: decimal.Zero,
		Net:        decimal.Zero,
	}
	for _, r := range records {
		if r.Status == payroll.StatusSuperseded {
			continue
		}
		totals.Gross = totals.Gross.Add(r.GrossEarned)
		totals.Deductions = totals.Deductions.Add(r.TotalDeductions)
		totals.Net = totals.Net.Add(r.NetPay)
	}
	return totals, nil
}

func (f *fakeRunRepo) ListStuck(_ context.Context, cutoff time.Time) ([]payroll.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.Run
	for _, r := range f.runs {
		if r.Status == payroll.RunStatusRunning && r.StartedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeConfigRepo struct {
	cfg statutory.Config
}

func (f *fakeConfigRepo) GetLatest(_ context.Context) (statutory.Config, error) {
	return f.cfg, nil
}

// testEnv bundles the service and every fake behind it.
type testEnv struct {
	svc         *Service
	employees   *fakeEmployeeRepo
	branches    *fakeBranchRepo
	holidays    *fakeHolidayRepo
	attendances *fakeAttendanceRepo
	ledger      *fakeLedgerRepo
	structures  *fakeStructureRepo
	arrears     *fakeArrearsRepo
	locks       *fakeHealthLockRepo
	statRecords *fakeStatRecordRepo
	records     *fakeRecordRepo
	runs        *fakeRunRepo
}

// newTestEnv wires the service against in-memory fakes and a fixed clock
// of 2025-05-15 so April 2025 periods are fully elapsed.
func newTestEnv() *testEnv {
	cfg := statutory.Defaults()
	cfg.Version = 1

	env := &testEnv{
		employees:   newFakeEmployeeRepo(),
		branches:    &fakeBranchRepo{branches: make(map[string]branch.Branch), shifts: make(map[string]branch.Shift)},
		holidays:    &fakeHolidayRepo{},
		attendances: newFakeAttendanceRepo(),
		ledger:      &fakeLedgerRepo{},
		structures:  &fakeStructureRepo{},
		arrears:     &fakeArrearsRepo{},
		locks:       newFakeHealthLockRepo(),
		statRecords: newFakeStatRecordRepo(),
		records:     &fakeRecordRepo{},
	}
	env.runs = newFakeRunRepo(env.records)

	svc := NewService(ServiceDeps{
		Tx:          postgresql.NewTxRunner(nil, false),
		Employees:   env.employees,
		Branches:    env.branches,
		Holidays:    env.holidays,
		Attendances: env.attendances,
		Structures:  env.structures,
		Records:     env.records,
		Runs:        env.runs,
		StatRecords: env.statRecords,
		Ledger:      leavesvc.NewLedgerService(env.ledger),
		Translator:  attendancesvc.NewTranslator(),
		Provider:    statutorysvc.NewConfigProvider(&fakeConfigRepo{cfg: cfg}, time.Hour),
		PF:          statutorysvc.NewProvidentFundCalculator(),
		Health:      statutorysvc.NewHealthContributionCalculator(env.locks),
		PayrollTax:  statutorysvc.NewPayrollTaxCalculator(env.statRecords),
		IncomeTax:   statutorysvc.NewIncomeTaxCalculator(env.records, env.statRecords),
		Arrears:     NewArrearsDetector(env.structures, env.arrears, env.records),
	})
	loc, _ := time.LoadLocation("Asia/Kolkata")
	svc.now = func() time.Time { return time.Date(2025, 5, 15, 12, 0, 0, 0, loc) }
	env.svc = svc
	return env
}
