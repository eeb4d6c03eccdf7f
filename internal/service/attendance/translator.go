package attendance

import (
	"time"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/branch"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/employee"
)

// violationsPerPenaltyDay converts discipline violations (late, early exit,
// auto checkout) into deducted days.
const violationsPerPenaltyDay = 3

// Input carries everything the translator needs, pre-loaded by the
// pipeline so translation itself does no I/O.
type Input struct {
	Employee employee.Employee
	Month    int
	Year     int
	Branch   branch.Branch
	Shift    branch.Shift
	Holidays []branch.Holiday
	Days     []attendance.DayRecord
	// AvailableLeave is the employee's current derived leave balance;
	// the translator consumes from it when splitting days into
	// leave-covered vs loss-of-pay.
	AvailableLeave float64
	// Now bounds evaluation when the period is the current month.
	Now time.Time
}

// Result is the attendance-to-deduction translation for one period.
type Result struct {
	AbsentDays        float64
	HalfDays          int
	LateCount         int
	EarlyCount        int
	AutoCheckoutCount int
	PenaltyDays       int
	LeaveDaysUsed     float64
	LOPDays           float64
	IsPostProbation   bool

	// WorkingDays is the branch working-day count for the full period;
	// the loss-of-pay day rate divides by it.
	WorkingDays int
	// PayableWorkingDays is the working-day count within the employee's
	// join/exit window; pro-ration is Payable/Working.
	PayableWorkingDays int
}

// TotalViolations is the violation count feeding penalty days.
func (r Result) TotalViolations() int {
	return r.LateCount + r.EarlyCount + r.AutoCheckoutCount
}

// Translator turns a month of finalized attendance facts into day counts
// and the leave-vs-LOP split. Pure given its input.
type Translator struct{}

func NewTranslator() *Translator {
	return &Translator{}
}

func (t *Translator) Translate(in Input) Result {
	loc := in.Branch.Location()
	periodStart := time.Date(in.Year, time.Month(in.Month), 1, 0, 0, 0, 0, loc)
	periodEnd := periodStart.AddDate(0, 1, 0).AddDate(0, 0, -1)
	now := in.Now.In(loc)

	result := Result{
		IsPostProbation: in.Employee.IsPostProbation(periodEnd),
	}

	holidaySet := make(map[string]bool, len(in.Holidays))
	for _, h := range in.Holidays {
		holidaySet[h.Date.In(loc).Format("2006-01-02")] = true
	}
	recordsByDay := make(map[string]attendance.DayRecord, len(in.Days))
	for _, d := range in.Days {
		recordsByDay[d.Date.In(loc).Format("2006-01-02")] = d
	}

	shiftMinutes := in.Shift.DurationMinutes()
	grace := time.Duration(in.Shift.GraceMinutes) * time.Minute

	balance := in.AvailableLeave
	joinDay := in.Employee.JoinDate.In(loc)

	for day := periodStart; !day.After(periodEnd); day = day.AddDate(0, 0, 1) {
		// Future days within the current month are never evaluated.
		if day.After(now) {
			break
		}
		if day.Before(truncateToDay(joinDay)) {
			continue
		}
		if in.Employee.ExitDate != nil && day.After(in.Employee.ExitDate.In(loc)) {
			continue
		}
		// Weekends and holidays never count against attendance.
		if !in.Branch.IsWorkingDay(day.Weekday()) {
			continue
		}
		key := day.Format("2006-01-02")
		if holidaySet[key] {
			continue
		}

		elapsed := !day.AddDate(0, 0, 1).After(now)

		rec, ok := recordsByDay[key]
		if !ok || !rec.HasPunches() {
			// Approved leave days are already accounted for upstream.
			if ok && rec.Status != nil && *rec.Status == attendance.DayStatusOnLeave {
				continue
			}
			if elapsed {
				result.AbsentDays++
				balance = t.coverDay(1.0, balance, &result)
			}
			continue
		}

		if (rec.Status != nil && *rec.Status == attendance.DayStatusHalfDay) ||
			(shiftMinutes > 0 && rec.WorkedMinutes < shiftMinutes/2) {
			result.HalfDays++
			balance = t.coverDay(0.5, balance, &result)
			continue
		}

		// Present. Late, early exit and auto checkout are violations;
		// they do not consume a day weight themselves.
		if rec.CheckIn != nil && isLate(*rec.CheckIn, in.Shift.StartTime, grace, loc) {
			result.LateCount++
		}
		if rec.CheckOut != nil && isEarly(*rec.CheckOut, in.Shift.EndTime, grace, loc) {
			result.EarlyCount++
		}
		if rec.AutoCheckout {
			result.AutoCheckoutCount++
		}
	}

	// Every three violations convert to one penalty day, covered from the
	// remaining balance first with partial coverage, remainder as LOP.
	result.PenaltyDays = result.TotalViolations() / violationsPerPenaltyDay
	if result.PenaltyDays > 0 {
		penalty := float64(result.PenaltyDays)
		if result.IsPostProbation && balance > 0 {
			cover := balance
			if cover > penalty {
				cover = penalty
			}
			result.LeaveDaysUsed += cover
			result.LOPDays += penalty - cover
			balance -= cover
		} else {
			result.LOPDays += penalty
		}
	}

	result.WorkingDays, result.PayableWorkingDays = t.countWorkingDays(in, periodStart, periodEnd, holidaySet, loc)

	return result
}

// coverDay splits one weighted day into leave-covered or loss-of-pay and
// returns the remaining balance. Regular days are covered whole or not at
// all; only penalty days split fractionally.
func (t *Translator) coverDay(weight, balance float64, result *Result) float64 {
	if result.IsPostProbation && balance >= weight {
		result.LeaveDaysUsed += weight
		return balance - weight
	}
	result.LOPDays += weight
	return balance
}

func (t *Translator) countWorkingDays(in Input, periodStart, periodEnd time.Time, holidaySet map[string]bool, loc *time.Location) (total, payable int) {
	joinDay := truncateToDay(in.Employee.JoinDate.In(loc))
	var exitDay *time.Time
	if in.Employee.ExitDate != nil {
		d := truncateToDay(in.Employee.ExitDate.In(loc))
		exitDay = &d
	}

	for day := periodStart; !day.After(periodEnd); day = day.AddDate(0, 0, 1) {
		if !in.Branch.IsWorkingDay(day.Weekday()) {
			continue
		}
		if holidaySet[day.Format("2006-01-02")] {
			continue
		}
		total++
		if day.Before(joinDay) {
			continue
		}
		if exitDay != nil && day.After(*exitDay) {
			continue
		}
		payable++
	}

	return total, payable
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isLate(checkIn time.Time, shiftStart string, grace time.Duration, loc *time.Location) bool {
	start, err := time.Parse("15:04", shiftStart)
	if err != nil {
		return false
	}
	local := checkIn.In(loc)
	threshold := time.Date(local.Year(), local.Month(), local.Day(), start.Hour(), start.Minute(), 0, 0, loc).Add(grace)
	return local.After(threshold)
}

func isEarly(checkOut time.Time, shiftEnd string, grace time.Duration, loc *time.Location) bool {
	end, err := time.Parse("15:04", shiftEnd)
	if err != nil {
		return false
	}
	local := checkOut.In(loc)
	threshold := time.Date(local.Year(), local.Month(), local.Day(), end.Hour(), end.Minute(), 0, 0, loc).Add(-grace)
	return local.Before(threshold)
}
