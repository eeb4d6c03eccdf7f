package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/attendance"
	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListForPeriod(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.DayRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, check_in, check_out, status,
			   auto_checkout, worked_minutes, created_at
		FROM attendance_days
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	var result []attendance.DayRecord
	for rows.Next() {
		var d attendance.DayRecord
		if err := rows.Scan(
			&d.ID, &d.EmployeeID, &d.Date, &d.CheckIn, &d.CheckOut, &d.Status,
			&d.AutoCheckout, &d.WorkedMinutes, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		result = append(result, d)
	}

	return result, rows.Err()
}
