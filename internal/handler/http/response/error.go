package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hrcore/hr-engine-go/internal/domain/employee"
	"github.com/hrcore/hr-engine-go/internal/domain/leave"
	"github.com/hrcore/hr-engine-go/internal/domain/payroll"
	"github.com/hrcore/hr-engine-go/internal/pkg/validator"
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

	// Leave domain errors
	case errors.Is(err, leave.ErrAlreadyInitialized):
		Conflict(w, "Leave balances already initialized for this employee and year")
	case errors.Is(err, leave.ErrInsufficientBalance):
		// The wrapped message carries the remaining/requested day counts.
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Leave request belongs to another employee")
	case errors.Is(err, leave.ErrBalanceInvariant):
		slog.Error("leave balance invariant violated", "error", err)
		InternalServerError(w, "An unexpected error occurred")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrDuplicateRun):
		Conflict(w, "Payroll run already exists for this period and scope")
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrLineItemNotFound):
		NotFound(w, "Payroll line item not found")
	case errors.Is(err, payroll.ErrNoEligibleEmployees):
		BadRequest(w, "No eligible employees in scope for this period", nil)
	case errors.Is(err, payroll.ErrPaymentSettled):
		Conflict(w, "Payment status already settled for this line item")
	case errors.Is(err, payroll.ErrRunSealed):
		slog.Error("attempted mutation of sealed payroll run", "error", err)
		InternalServerError(w, "An unexpected error occurred")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
