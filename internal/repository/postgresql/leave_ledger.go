package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/leave"
	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/database"
)

type leaveLedgerRepository struct {
	db *database.DB
}

func NewLeaveLedgerRepository(db *database.DB) leave.LedgerRepository {
	return &leaveLedgerRepository{db: db}
}

func (r *leaveLedgerRepository) Append(ctx context.Context, entry leave.LedgerEntry) (leave.LedgerEntry, error) {
	if entry.Days <= 0 {
		return leave.LedgerEntry{}, leave.ErrInvalidEntryDays
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_ledger_entries (
			id, employee_id, entry_type, leave_type, days, reason, payroll_record_id
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6)
		RETURNING id, employee_id, entry_type, leave_type, days, reason, payroll_record_id, created_at
	`

	var e leave.LedgerEntry
	err := q.QueryRow(ctx, query,
		entry.EmployeeID, entry.Type, entry.LeaveType, entry.Days, entry.Reason, entry.PayrollRecordID,
	).Scan(
		&e.ID, &e.EmployeeID, &e.Type, &e.LeaveType, &e.Days, &e.Reason, &e.PayrollRecordID, &e.CreatedAt,
	)
	if err != nil {
		// Partial unique index: one deduction per (payroll record, leave
		// type, reason).
		if strings.Contains(err.Error(), "uk_leave_ledger_record_deduction") {
			return leave.LedgerEntry{}, leave.ErrDuplicateDeduction
		}
		return leave.LedgerEntry{}, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return e, nil
}

func (r *leaveLedgerRepository) Aggregate(ctx context.Context, employeeID, leaveType string, excludeRecordID *string) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE(SUM(days) FILTER (WHERE entry_type = 'allocation'), 0),
			COALESCE(SUM(days) FILTER (WHERE entry_type = 'correction'), 0),
			COALESCE(SUM(days) FILTER (WHERE entry_type = 'deduction'), 0),
			COALESCE(SUM(days) FILTER (WHERE entry_type = 'reversion'), 0)
		FROM leave_ledger_entries
		WHERE employee_id = $1
		  AND leave_type = $2
		  AND ($3::uuid IS NULL OR payroll_record_id IS DISTINCT FROM $3::uuid)
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, employeeID, leaveType, excludeRecordID).Scan(
		&b.Allocations, &b.Corrections, &b.Deductions, &b.Reversions,
	)
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to aggregate leave ledger: %w", err)
	}

	return b, nil
}

func (r *leaveLedgerRepository) DeleteByPayrollRecord(ctx context.Context, payrollRecordID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM leave_ledger_entries
		WHERE payroll_record_id = $1 AND entry_type = 'deduction'
	`

	if _, err := q.Exec(ctx, query, payrollRecordID); err != nil {
		return fmt.Errorf("failed to delete superseded ledger entries: %w", err)
	}

	return nil
}

func (r *leaveLedgerRepository) HasEntryWithReason(ctx context.Context, employeeID string, entryType leave.EntryType, reason string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_ledger_entries
			WHERE employee_id = $1 AND entry_type = $2 AND reason = $3
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, entryType, reason).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check ledger entry existence: %w", err)
	}

	return exists, nil
}
