package attendance

import "time"

// DayStatus is the pre-computed classification attached to a day record by
// the attendance capture system. The engine consumes it read-only.
type DayStatus string

const (
	DayStatusPresent DayStatus = "present"
	DayStatusHalfDay DayStatus = "half_day"
	DayStatusOnLeave DayStatus = "on_leave"
	DayStatusAbsent  DayStatus = "absent"
)

// DayRecord is one employee-day of finalized attendance facts.
type DayRecord struct {
	ID         string
	EmployeeID string
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     *DayStatus
	// AutoCheckout marks a punch closed by the system rather than the
	// employee; it counts as a discipline violation.
	AutoCheckout  bool
	WorkedMinutes int
	CreatedAt     time.Time
}

// HasPunches reports whether the day carries at least one real punch.
func (r DayRecord) HasPunches() bool {
	return r.CheckIn != nil || r.CheckOut != nil
}
