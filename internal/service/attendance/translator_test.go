package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/branch"
	"github.com/paygrid-hr/payroll-backend-go/internal/fixtures"
)

// April 2025 on the fixture branch: 22 weekdays, Apr 14 is a holiday,
// leaving 21 working days.
func april2025Input(emp string, join time.Time) Input {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	return Input{
		Employee: fixtures.Employee(emp, join),
		Month:    4,
		Year:     2025,
		Branch:   fixtures.Branch(),
		Shift:    fixtures.Shift(),
		Holidays: []branch.Holiday{
			{ID: "hol-1", BranchID: "branch-blr-1", Date: time.Date(2025, 4, 14, 0, 0, 0, 0, loc), Name: "Ambedkar Jayanti"},
		},
		Now: time.Date(2025, 5, 15, 12, 0, 0, 0, loc),
	}
}

// presentApril fills every working day of April 2025 with on-time punches.
func presentApril(emp string) []attendance.DayRecord {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	br := fixtures.Branch()
	var days []attendance.DayRecord
	for d := 1; d <= 30; d++ {
		date := time.Date(2025, 4, d, 0, 0, 0, 0, loc)
		if !br.IsWorkingDay(date.Weekday()) || d == 14 {
			continue
		}
		days = append(days, fixtures.PresentDay(emp, date))
	}
	return days
}

func day(d int) time.Time {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	return time.Date(2025, 4, d, 0, 0, 0, 0, loc)
}

func replaceDay(days []attendance.DayRecord, rec attendance.DayRecord) []attendance.DayRecord {
	out := make([]attendance.DayRecord, 0, len(days))
	key := rec.Date.Format("2006-01-02")
	for _, existing := range days {
		if existing.Date.Format("2006-01-02") == key {
			continue
		}
		out = append(out, existing)
	}
	return append(out, rec)
}

var postProbationJoin = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestTranslate_FullPresentMonth(t *testing.T) {
	in := april2025Input("e1", postProbationJoin)
	in.Days = presentApril("e1")
	in.AvailableLeave = 5

	got := NewTranslator().Translate(in)

	assert.Equal(t, 21, got.WorkingDays)
	assert.Equal(t, 21, got.PayableWorkingDays)
	assert.Zero(t, got.AbsentDays)
	assert.Zero(t, got.LOPDays)
	assert.Zero(t, got.LeaveDaysUsed)
	assert.Zero(t, got.TotalViolations())
	assert.True(t, got.IsPostProbation)
}

func TestTranslate_ThreeLatesBecomeOnePenaltyDay(t *testing.T) {
	in := april2025Input("e1", postProbationJoin)
	days := presentApril("e1")
	for _, d := range []int{2, 3, 4} {
		days = replaceDay(days, fixtures.LateDay("e1", day(d)))
	}
	in.Days = days
	in.AvailableLeave = 5

	got := NewTranslator().Translate(in)

	assert.Equal(t, 3, got.LateCount)
	assert.Equal(t, 1, got.PenaltyDays)
	// Balance covers the penalty day entirely.
	assert.Equal(t, 1.0, got.LeaveDaysUsed)
	assert.Zero(t, got.LOPDays)
}

func TestTranslate_TwoLatesAreNotAPenalty(t *testing.T) {
	in := april2025Input("e1", postProbationJoin)
	days := presentApril("e1")
	for _, d := range []int{2, 3} {
		days = replaceDay(days, fixtures.LateDay("e1", day(d)))
	}
	in.Days = days
	in.AvailableLeave = 5

	got := NewTranslator().Translate(in)

	assert.Equal(t, 2, got.LateCount)
	assert.Zero(t, got.PenaltyDays)
	assert.Zero(t, got.LOPDays)
}

func TestTranslate_AutoCheckoutCountsAsViolation(t *testing.T) {
	in := april2025Input("e1", postProbationJoin)
	days := presentApril("e1")
	for _, d := range []int{2, 3, 4} {
		rec := fixtures.PresentDay("e1", day(d))
		rec.AutoCheckout = true
		days = replaceDay(days, rec)
	}
	in.Days = days

	got := NewTranslator().Translate(in)

	assert.Equal(t, 3, got.AutoCheckoutCount)
	assert.Equal(t, 1, got.PenaltyDays)
	// No balance: the penalty day is loss of pay.
	assert.Equal(t, 1.0, got.LOPDays)
}

func TestTranslate_AbsencesSplitAcrossBalanceAndLOP(t *testing.T) {
	in := april2025Input("e1", postProbationJoin)
	days := presentApril("e1")
	days = replaceDay(days, fixtures.AbsentDay("e1", day(2)))
	days = replaceDay(days, fixtures.AbsentDay("e1", day(9)))
	in.Days = days
	in.AvailableLeave = 1

	got := NewTranslator().Translate(in)

	assert.Equal(t, 2.0, got.AbsentDays)
	// Whole-or-nothing coverage: the first absence consumes the single
	// day of balance, the second goes to loss of pay.
	assert.Equal(t, 1.0, got.LeaveDaysUsed)
	assert.Equal(t, 1.0, got.LOPDays)
}

func TestTranslate_PreProbationNeverDrawsBalance(t *testing.T) {
	in := april2025Input("e1", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	days := presentApril("e1")
	days = replaceDay(days, fixtures.AbsentDay("e1", day(2)))
	in.Days = days
	in.AvailableLeave = 10

	got := NewTranslator().Translate(in)

	assert.False(t, got.IsPostProbation)
	assert.Zero(t, got.LeaveDaysUsed)
	assert.Equal(t, 1.0, got.LOPDays)
}

func TestTranslate_HalfDayConsumesHalfABalanceDay(t *testing.T) {
	in := april2025Input("e1", postProbationJoin)
	days := presentApril("e1")
	days = replaceDay(days, fixtures.HalfDay("e1", day(2)))
	in.Days = days
	in.AvailableLeave = 2

	got := NewTranslator().Translate(in)

	assert.Equal(t, 1, got.HalfDays)
	assert.Equal(t, 0.5, got.LeaveDaysUsed)
	assert.Zero(t, got.LOPDays)
}

func TestTranslate_OnLeaveDaysAreNotAbsences(t *testing.T) {
	in := april2025Input("e1", postProbationJoin)
	days := presentApril("e1")
	days = replaceDay(days, fixtures.OnLeaveDay("e1", day(2)))
	in.Days = days

	got := NewTranslator().Translate(in)

	assert.Zero(t, got.AbsentDays)
	assert.Zero(t, got.LOPDays)
}

func TestTranslate_CurrentMonthStopsAtNow(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	in := april2025Input("e1", postProbationJoin)
	// Mid-month with no attendance at all: only fully elapsed working
	// days count as absences.
	in.Now = time.Date(2025, 4, 10, 12, 0, 0, 0, loc)

	got := NewTranslator().Translate(in)

	// Apr 1-4 and Apr 7-9 have fully elapsed; Apr 10 is still in flight.
	assert.Equal(t, 7.0, got.AbsentDays)
	assert.Equal(t, 7.0, got.LOPDays)
	// The working-day denominators still cover the whole period.
	assert.Equal(t, 21, got.WorkingDays)
	assert.Equal(t, 21, got.PayableWorkingDays)
}

func TestTranslate_MidMonthJoinProration(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	in := april2025Input("e1", time.Date(2025, 4, 16, 0, 0, 0, 0, loc))
	in.Days = presentApril("e1")

	got := NewTranslator().Translate(in)

	assert.Equal(t, 21, got.WorkingDays)
	// Working days on or after Apr 16: 16-18, 21-25, 28-30.
	assert.Equal(t, 11, got.PayableWorkingDays)
	assert.Zero(t, got.AbsentDays, "days before joining are not absences")
}

func TestTranslate_ExitMidMonth(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	in := april2025Input("e1", postProbationJoin)
	exit := time.Date(2025, 4, 15, 0, 0, 0, 0, loc)
	in.Employee.ExitDate = &exit
	in.Days = presentApril("e1")

	got := NewTranslator().Translate(in)

	assert.Equal(t, 21, got.WorkingDays)
	// Working days through Apr 15, minus the Apr 14 holiday.
	assert.Equal(t, 10, got.PayableWorkingDays)
	assert.Zero(t, got.AbsentDays, "days after exiting are not absences")
}
