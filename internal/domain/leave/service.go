package leave

import (
	"context"

	"github.com/hrcore/hr-engine-go/internal/domain/actor"
	"github.com/shopspring/decimal"
)

// BalanceStore owns accrual and consumption of leave balances.
type BalanceStore interface {
	// Initialize creates one balance row per leave type for the employee and
	// year. All-or-nothing; an existing row fails the call with
	// ErrAlreadyInitialized.
	Initialize(ctx context.Context, act actor.Actor, employeeID string, year int) ([]Balance, error)

	// InitializeYear runs Initialize over the active roster, treating
	// ErrAlreadyInitialized as a skip and other failures as failed rows.
	InitializeYear(ctx context.Context, act actor.Actor, year int) (InitializeYearSummary, error)

	BalancesFor(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
}

// CycleTracker derives the rolling sick-leave window; read-mostly.
type CycleTracker interface {
	CycleFor(ctx context.Context, employeeID string, asOfYear int) (CycleWindow, error)
	RemainingInCycle(ctx context.Context, employeeID string, asOfYear int) (decimal.Decimal, error)
	CycleReport(ctx context.Context, year int) (CycleReportResponse, error)
}

// RequestLedger is the leave-request state machine.
type RequestLedger interface {
	Submit(ctx context.Context, act actor.Actor, req SubmitRequestRequest) (RequestResponse, error)
	Approve(ctx context.Context, act actor.Actor, requestID string) (RequestResponse, error)
	Reject(ctx context.Context, act actor.Actor, req RejectRequestRequest) (RequestResponse, error)
	Cancel(ctx context.Context, act actor.Actor, requestID string) (RequestResponse, error)
	List(ctx context.Context, filter RequestFilter) ([]RequestResponse, error)
}
