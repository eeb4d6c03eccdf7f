package payroll

import "errors"

var (
	ErrRecordNotFound = errors.New("payroll record not found")
	// ErrDuplicateActiveRecord means another writer created the period's
	// active record mid-transaction. Fatal for that employee; never
	// silently overwritten.
	ErrDuplicateActiveRecord = errors.New("active payroll record already exists for this period")
	ErrRunNotFound           = errors.New("payroll run not found")
	ErrRunAlreadyActive      = errors.New("a payroll run is already running for this branch and period")
	ErrInvalidPeriod         = errors.New("invalid payroll period")
)
