package payroll

import "errors"

var (
	ErrDuplicateRun        = errors.New("payroll run already exists for this period and scope")
	ErrRunNotFound         = errors.New("payroll run not found")
	ErrLineItemNotFound    = errors.New("payroll line item not found")
	ErrNoEligibleEmployees = errors.New("no eligible employees in scope for this period")
	ErrPaymentSettled      = errors.New("payment status already settled for this line item")

	// ErrRunSealed guards mutation of a processed run. Fatal class: logged and
	// never silently corrected.
	ErrRunSealed = errors.New("payroll run is sealed")
)
