package payroll

import (
	"context"
	"time"
)

// RunFilter narrows run listings.
type RunFilter struct {
	Month  *int
	Year   *int
	Status *RunStatus
}

// RunRepository - interface for payroll_runs and payroll_line_items tables.
type RunRepository interface {
	// CreateRun inserts a draft run. The unique (month, year, scope) index
	// maps a duplicate to ErrDuplicateRun, closing the concurrent-Process
	// race at the database.
	CreateRun(ctx context.Context, run Run) (Run, error)

	CreateLineItems(ctx context.Context, items []LineItem) error

	// SealRun flips draft -> processed and writes the aggregate totals.
	// Guarded on current status; a guard miss is ErrRunSealed.
	SealRun(ctx context.Context, run Run) (Run, error)

	GetRunByID(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	GetLineItem(ctx context.Context, id string) (LineItem, error)
	GetLineItemByRunEmployee(ctx context.Context, runID, employeeID string) (LineItem, error)
	ListLineItems(ctx context.Context, runID string) ([]LineItem, error)

	// UpdatePaymentStatus moves a line item out of pending. Guarded on
	// payment_status = 'pending'; a guard miss on an existing row is
	// ErrPaymentSettled.
	UpdatePaymentStatus(ctx context.Context, id string, status PaymentStatus, paymentDate *time.Time, paymentReference *string) error
}
