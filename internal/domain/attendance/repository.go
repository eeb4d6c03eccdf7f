package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is read-only: attendance capture is an external
// collaborator and the engine only consumes finalized facts.
type AttendanceRepository interface {
	ListForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]DayRecord, error)
}
