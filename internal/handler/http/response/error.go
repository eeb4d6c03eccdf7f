package response

import (
	"errors"
	"net/http"

	"github.com/paygrid-hr/payroll-backend-go/internal/domain/branch"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/employee"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/paygrid-hr/payroll-backend-go/internal/domain/salary"
	"github.com/paygrid-hr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNoBranch):
		BadRequest(w, "Employee has no branch assigned", nil)

	// Branch domain errors
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")
	case errors.Is(err, branch.ErrShiftNotFound):
		NotFound(w, "Shift not found")

	// Salary domain errors
	case errors.Is(err, salary.ErrStructureNotFound):
		NotFound(w, "Salary structure not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrDuplicateActiveRecord):
		Conflict(w, "An active payroll record already exists for this period")
	case errors.Is(err, payroll.ErrRunAlreadyActive):
		Conflict(w, "A payroll run is already running for this branch and period")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
