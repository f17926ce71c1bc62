package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceRepository - interface for leave_balances table.
type BalanceRepository interface {
	// Create inserts a new balance row. A duplicate (employee_id, leave_type,
	// year) maps to ErrAlreadyInitialized via the unique index.
	Create(ctx context.Context, balance Balance) (Balance, error)
	GetByEmployeeTypeYear(ctx context.Context, employeeID string, leaveType Type, year int) (Balance, error)
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) ([]Balance, error)

	// SickUsageInYears sums sick used_days over [fromYear, toYear]. Missing
	// years contribute zero.
	SickUsageInYears(ctx context.Context, employeeID string, fromYear, toYear int) (decimal.Decimal, error)

	// Consume adds days to used_days behind a compare-and-swap predicate.
	// Returns ErrInsufficientBalance when the ceiling would be exceeded
	// (skipped when capped is false) and ErrBalanceNotFound when no row exists.
	Consume(ctx context.Context, employeeID string, leaveType Type, year int, days decimal.Decimal, capped bool) error

	// ConsumeSick is Consume for the sick type with the additional cycle-wide
	// predicate: total sick usage across [cycleStart, cycleEnd] must stay
	// within allowance.
	ConsumeSick(ctx context.Context, employeeID string, year int, days decimal.Decimal, cycleStart, cycleEnd int, allowance decimal.Decimal) error

	// Release subtracts days from used_days, guarded so the result never goes
	// negative; a guard miss is ErrBalanceInvariant.
	Release(ctx context.Context, employeeID string, leaveType Type, year int, days decimal.Decimal) error
}

// RequestFilter narrows request listings.
type RequestFilter struct {
	EmployeeID *string
	Status     *RequestStatus
}

// RequestRepository - interface for leave_requests table.
type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	List(ctx context.Context, filter RequestFilter) ([]Request, error)

	// Transition updates status only when the current status matches from,
	// so terminal states stay immutable under concurrency. A guard miss on an
	// existing row is ErrAlreadyProcessed.
	Transition(ctx context.Context, id string, from, to RequestStatus, approverID *string, rejectionReason *string, decidedAt time.Time) error
}
