package branch

import "time"

type Branch struct {
	ID   string
	Name string
	// StateCode selects the payroll-tax slab table for the branch's
	// jurisdiction, e.g. "KA", "MH".
	StateCode string
	Timezone  string
	// WorkingDays holds the weekdays the branch operates on.
	WorkingDays []time.Weekday
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsWorkingDay reports whether the weekday is part of the branch calendar.
func (b Branch) IsWorkingDay(d time.Weekday) bool {
	for _, wd := range b.WorkingDays {
		if wd == d {
			return true
		}
	}
	return false
}

// Location resolves the branch timezone, falling back to UTC.
func (b Branch) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type Shift struct {
	ID   string
	Name string
	// StartTime and EndTime are local wall-clock values, "15:04" format.
	StartTime    string
	EndTime      string
	GraceMinutes int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DurationMinutes returns the shift length in minutes, tolerating
// overnight shifts.
func (s Shift) DurationMinutes() int {
	start, err1 := time.Parse("15:04", s.StartTime)
	end, err2 := time.Parse("15:04", s.EndTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		d += 24 * time.Hour
	}
	return int(d.Minutes())
}

type Holiday struct {
	ID       string
	BranchID string
	Date     time.Time
	Name     string
}
