package payroll

import (
	"context"

	"github.com/hrcore/hr-engine-go/internal/domain/actor"
	"github.com/shopspring/decimal"
)

// TaxCalculator maps gross monthly pay to statutory withholdings. The only
// place tax policy lives; implementations must be total and side-effect-free.
type TaxCalculator interface {
	PAYE(grossMonthlyPay decimal.Decimal) decimal.Decimal
	UIF(grossMonthlyPay decimal.Decimal) decimal.Decimal
}

// RunProcessor orchestrates payroll batches.
type RunProcessor interface {
	// Process computes one line item per eligible employee and seals the run
	// atomically. A run already existing for the exact (month, year, scope)
	// fails with ErrDuplicateRun.
	Process(ctx context.Context, act actor.Actor, req ProcessRunRequest) (RunResponse, error)

	// UpdatePaymentStatus records disbursement per line item without
	// reopening the sealed run.
	UpdatePaymentStatus(ctx context.Context, act actor.Actor, req UpdatePaymentStatusRequest) (LineItemResponse, error)

	GetRun(ctx context.Context, runID string) (RunResponse, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]RunResponse, error)
}

// PayslipProjector is the read-only payslip view over a sealed run.
type PayslipProjector interface {
	Payslip(ctx context.Context, employeeID, runID string) (PayslipResponse, error)
}
