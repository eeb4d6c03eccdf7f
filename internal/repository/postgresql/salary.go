package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/salary"
	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/database"
)

type salaryStructureRepository struct {
	db *database.DB
}

func NewSalaryStructureRepository(db *database.DB) salary.StructureRepository {
	return &salaryStructureRepository{db: db}
}

const structureColumns = `
	id, employee_id, version, basic, dearness_allowance, house_rent_allowance,
	special_allowance, gross, is_active, effective_from, effective_to,
	created_at, updated_at
`

func scanStructure(row pgx.Row) (salary.Structure, error) {
	var s salary.Structure
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.Version, &s.Basic, &s.DearnessAllowance, &s.HouseRentAllowance,
		&s.SpecialAllowance, &s.Gross, &s.IsActive, &s.EffectiveFrom, &s.EffectiveTo,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *salaryStructureRepository) GetEffectiveForPeriod(ctx context.Context, employeeID string, periodEnd time.Time) (salary.Structure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + structureColumns + `
		FROM salary_structures
		WHERE employee_id = $1 AND effective_from <= $2
		ORDER BY effective_from DESC, version DESC
		LIMIT 1
	`

	s, err := scanStructure(q.QueryRow(ctx, query, employeeID, periodEnd))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Structure{}, salary.ErrStructureNotFound
		}
		return salary.Structure{}, fmt.Errorf("failed to get effective salary structure: %w", err)
	}

	return s, nil
}

func (r *salaryStructureRepository) GetEarliest(ctx context.Context, employeeID string) (salary.Structure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + structureColumns + `
		FROM salary_structures
		WHERE employee_id = $1
		ORDER BY effective_from ASC, version ASC
		LIMIT 1
	`

	s, err := scanStructure(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Structure{}, salary.ErrStructureNotFound
		}
		return salary.Structure{}, fmt.Errorf("failed to get earliest salary structure: %w", err)
	}

	return s, nil
}

func (r *salaryStructureRepository) GetPreviousVersion(ctx context.Context, employeeID string, beforeVersion int) (salary.Structure, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + structureColumns + `
		FROM salary_structures
		WHERE employee_id = $1 AND version < $2
		ORDER BY version DESC
		LIMIT 1
	`

	s, err := scanStructure(q.QueryRow(ctx, query, employeeID, beforeVersion))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.Structure{}, salary.ErrStructureNotFound
		}
		return salary.Structure{}, fmt.Errorf("failed to get previous salary structure: %w", err)
	}

	return s, nil
}

type arrearsRepository struct {
	db *database.DB
}

func NewArrearsRepository(db *database.DB) salary.ArrearsRepository {
	return &arrearsRepository{db: db}
}

func (r *arrearsRepository) Create(ctx context.Context, adj salary.ArrearsAdjustment) (salary.ArrearsAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO arrears_adjustments (
			id, employee_id, from_structure_id, to_structure_id,
			old_gross, new_gross, affected_months, amount, status,
			applied_month, applied_year
		) VALUES (uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, employee_id, from_structure_id, to_structure_id,
			old_gross, new_gross, affected_months, amount, status,
			applied_month, applied_year, created_at, updated_at
	`

	var a salary.ArrearsAdjustment
	err := q.QueryRow(ctx, query,
		adj.EmployeeID, adj.FromStructureID, adj.ToStructureID,
		adj.OldGross, adj.NewGross, adj.AffectedMonths, adj.Amount, adj.Status,
		adj.AppliedMonth, adj.AppliedYear,
	).Scan(
		&a.ID, &a.EmployeeID, &a.FromStructureID, &a.ToStructureID,
		&a.OldGross, &a.NewGross, &a.AffectedMonths, &a.Amount, &a.Status,
		&a.AppliedMonth, &a.AppliedYear, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		// Partial unique index over non-cancelled adjustments guards the
		// one-per-transition invariant under concurrent reprocessing.
		if strings.Contains(err.Error(), "uk_arrears_transition") {
			return salary.ArrearsAdjustment{}, salary.ErrArrearsExists
		}
		return salary.ArrearsAdjustment{}, fmt.Errorf("failed to create arrears adjustment: %w", err)
	}

	return a, nil
}

func (r *arrearsRepository) GetByTransition(ctx context.Context, fromStructureID, toStructureID string) (salary.ArrearsAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, from_structure_id, to_structure_id,
			   old_gross, new_gross, affected_months, amount, status,
			   applied_month, applied_year, created_at, updated_at
		FROM arrears_adjustments
		WHERE from_structure_id = $1 AND to_structure_id = $2 AND status != 'cancelled'
	`

	var a salary.ArrearsAdjustment
	err := q.QueryRow(ctx, query, fromStructureID, toStructureID).Scan(
		&a.ID, &a.EmployeeID, &a.FromStructureID, &a.ToStructureID,
		&a.OldGross, &a.NewGross, &a.AffectedMonths, &a.Amount, &a.Status,
		&a.AppliedMonth, &a.AppliedYear, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salary.ArrearsAdjustment{}, salary.ErrArrearsNotFound
		}
		return salary.ArrearsAdjustment{}, fmt.Errorf("failed to get arrears adjustment: %w", err)
	}

	return a, nil
}

func (r *arrearsRepository) MarkApplied(ctx context.Context, id string, month, year int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE arrears_adjustments
		SET status = 'applied', applied_month = $2, applied_year = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, month, year)
	if err != nil {
		return fmt.Errorf("failed to mark arrears applied: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return salary.ErrArrearsNotFound
	}

	return nil
}
