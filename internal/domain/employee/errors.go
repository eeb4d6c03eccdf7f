package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeNoBranch = errors.New("employee has no branch assigned")
)
