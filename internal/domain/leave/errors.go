package leave

import "errors"

var (
	ErrAlreadyInitialized  = errors.New("leave balance already initialized for this employee, type and year")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrBalanceNotFound     = errors.New("leave balance not found")
	ErrRequestNotFound     = errors.New("leave request not found")
	ErrAlreadyProcessed    = errors.New("leave request already processed")
	ErrNotRequestOwner     = errors.New("leave request belongs to another employee")

	// ErrBalanceInvariant signals a release that would drive used days below
	// zero. Programming-error class: aborts the enclosing transaction and is
	// logged, never silently corrected.
	ErrBalanceInvariant = errors.New("leave balance invariant violated")
)
