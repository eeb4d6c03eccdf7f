package statutory

import "errors"

var (
	ErrConfigNotFound     = errors.New("statutory configuration not found")
	ErrPeriodLockNotFound = errors.New("health contribution period lock not found")
	ErrStateNotConfigured = errors.New("no payroll tax slab table for state")
	ErrRegimeNotFound     = errors.New("income tax regime not configured")
)
