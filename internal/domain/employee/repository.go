package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	// GetActiveByBranchID returns employees eligible for a branch run:
	// active, not soft-deleted, assigned to the branch.
	GetActiveByBranchID(ctx context.Context, branchID string) ([]Employee, error)
}
