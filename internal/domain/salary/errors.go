package salary

import "errors"

var (
	ErrStructureNotFound = errors.New("salary structure not found")
	ErrArrearsNotFound   = errors.New("arrears adjustment not found")
	ErrArrearsExists     = errors.New("arrears adjustment already exists for this structure transition")
)
