package branch

import (
	"context"
	"time"
)

type BranchRepository interface {
	GetByID(ctx context.Context, id string) (Branch, error)
	GetShiftByID(ctx context.Context, id string) (Shift, error)
}

type HolidayRepository interface {
	// ListForPeriod returns holidays for the branch with dates in [from, to].
	ListForPeriod(ctx context.Context, branchID string, from, to time.Time) ([]Holiday, error)
}
