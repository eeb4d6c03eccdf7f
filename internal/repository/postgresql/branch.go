package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/branch"
	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/database"
)

type branchRepository struct {
	db *database.DB
}

func NewBranchRepository(db *database.DB) branch.BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, state_code, timezone, working_days, created_at, updated_at
		FROM branches
		WHERE id = $1
	`

	var b branch.Branch
	var workingDays []int
	err := q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.StateCode, &b.Timezone, &workingDays, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return branch.Branch{}, branch.ErrBranchNotFound
		}
		return branch.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	b.WorkingDays = make([]time.Weekday, 0, len(workingDays))
	for _, d := range workingDays {
		b.WorkingDays = append(b.WorkingDays, time.Weekday(d))
	}

	return b, nil
}

func (r *branchRepository) GetShiftByID(ctx context.Context, id string) (branch.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, start_time, end_time, grace_minutes, created_at, updated_at
		FROM shifts
		WHERE id = $1
	`

	var s branch.Shift
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.StartTime, &s.EndTime, &s.GraceMinutes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return branch.Shift{}, branch.ErrShiftNotFound
		}
		return branch.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}

	return s, nil
}

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) branch.HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) ListForPeriod(ctx context.Context, branchID string, from, to time.Time) ([]branch.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, branch_id, date, name
		FROM holidays
		WHERE branch_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, branchID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var result []branch.Holiday
	for rows.Next() {
		var h branch.Holiday
		if err := rows.Scan(&h.ID, &h.BranchID, &h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		result = append(result, h)
	}

	return result, rows.Err()
}
