package leave

import "errors"

var (
	ErrDuplicateDeduction = errors.New("deduction entry already exists for this payroll record and leave type")
	ErrInvalidEntryDays   = errors.New("ledger entry days must be positive")
)
