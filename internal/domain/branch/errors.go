package branch

import "errors"

var (
	ErrBranchNotFound = errors.New("branch not found")
	ErrShiftNotFound  = errors.New("shift not found")
)
