// Package fixtures provides shared builders for payroll service tests.
package fixtures

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/branch"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/employee"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/salary"
)

func Dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Branch returns a Karnataka branch on a Monday-to-Friday week.
func Branch() branch.Branch {
	return branch.Branch{
		ID:        "branch-blr-1",
		Name:      "Bengaluru HQ",
		StateCode: "KA",
		Timezone:  "Asia/Kolkata",
		WorkingDays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
	}
}

// Shift returns a 09:00-18:00 shift with 15 minutes of grace.
func Shift() branch.Shift {
	return branch.Shift{
		ID:           "shift-general",
		Name:         "General",
		StartTime:    "09:00",
		EndTime:      "18:00",
		GraceMinutes: 15,
	}
}

// Employee returns an active employee joined on the given date, assigned to
// the fixture branch and shift.
func Employee(id string, joinDate time.Time) employee.Employee {
	return employee.Employee{
		ID:           id,
		BranchID:     "branch-blr-1",
		ShiftID:      "shift-general",
		EmployeeCode: "1000-" + id,
		FullName:     "Employee " + id,
		JoinDate:     joinDate,
		IsActive:     true,
	}
}

// Structure returns a version-1 structure with the classic 50/10/25/15
// component split of the given gross.
func Structure(employeeID string, gross decimal.Decimal, effectiveFrom time.Time) salary.Structure {
	basic := gross.Mul(Dec("0.5")).Round(2)
	da := gross.Mul(Dec("0.1")).Round(2)
	hra := gross.Mul(Dec("0.25")).Round(2)
	special := gross.Sub(basic).Sub(da).Sub(hra)
	return salary.Structure{
		ID:                 "structure-" + employeeID + "-v1",
		EmployeeID:         employeeID,
		Version:            1,
		Basic:              basic,
		DearnessAllowance:  da,
		HouseRentAllowance: hra,
		SpecialAllowance:   special,
		Gross:              gross,
		IsActive:           true,
		EffectiveFrom:      effectiveFrom,
	}
}

// PresentDay returns a day with on-time punches for the fixture shift.
func PresentDay(employeeID string, date time.Time) attendance.DayRecord {
	loc := date.Location()
	in := time.Date(date.Year(), date.Month(), date.Day(), 8, 55, 0, 0, loc)
	out := time.Date(date.Year(), date.Month(), date.Day(), 18, 5, 0, 0, loc)
	status := attendance.DayStatusPresent
	return attendance.DayRecord{
		ID:            fmt.Sprintf("att-%s-%s", employeeID, date.Format("2006-01-02")),
		EmployeeID:    employeeID,
		Date:          date,
		CheckIn:       &in,
		CheckOut:      &out,
		Status:        &status,
		WorkedMinutes: 550,
	}
}

// LateDay returns a day punched in past the grace window.
func LateDay(employeeID string, date time.Time) attendance.DayRecord {
	rec := PresentDay(employeeID, date)
	loc := date.Location()
	in := time.Date(date.Year(), date.Month(), date.Day(), 9, 40, 0, 0, loc)
	rec.CheckIn = &in
	rec.WorkedMinutes = 505
	return rec
}

// AbsentDay returns a day with no punches and no status.
func AbsentDay(employeeID string, date time.Time) attendance.DayRecord {
	return attendance.DayRecord{
		ID:         fmt.Sprintf("att-%s-%s", employeeID, date.Format("2006-01-02")),
		EmployeeID: employeeID,
		Date:       date,
	}
}

// HalfDay returns a day classified half_day by the capture system.
func HalfDay(employeeID string, date time.Time) attendance.DayRecord {
	rec := PresentDay(employeeID, date)
	status := attendance.DayStatusHalfDay
	rec.Status = &status
	rec.WorkedMinutes = 240
	return rec
}

// OnLeaveDay returns a day covered by an approved leave request.
func OnLeaveDay(employeeID string, date time.Time) attendance.DayRecord {
	status := attendance.DayStatusOnLeave
	return attendance.DayRecord{
		ID:         fmt.Sprintf("att-%s-%s", employeeID, date.Format("2006-01-02")),
		EmployeeID: employeeID,
		Date:       date,
		Status:     &status,
	}
}
