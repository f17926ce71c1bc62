package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrcore/hr-engine-go/internal/domain/actor"
	"github.com/hrcore/hr-engine-go/internal/domain/employee"
	"github.com/hrcore/hr-engine-go/internal/domain/leave"
	"github.com/hrcore/hr-engine-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

// BalanceService implements leave.BalanceStore.
type BalanceService struct {
	tx           database.TxRunner
	balanceRepo  leave.BalanceRepository
	employeeRepo employee.Repository
	policy       leave.Policy
}

func NewBalanceService(
	tx database.TxRunner,
	balanceRepo leave.BalanceRepository,
	employeeRepo employee.Repository,
	policy leave.Policy,
) *BalanceService {
	return &BalanceService{
		tx:           tx,
		balanceRepo:  balanceRepo,
		employeeRepo: employeeRepo,
		policy:       policy,
	}
}

// Initialize creates the year's balance rows for one employee, one per leave
// type, inside a single transaction. Any pre-existing row fails the whole
// call with ErrAlreadyInitialized so nothing is half-created.
func (s *BalanceService) Initialize(ctx context.Context, act actor.Actor, employeeID string, year int) ([]leave.Balance, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	balances := make([]leave.Balance, 0, len(leave.AllTypes))
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, leaveType := range leave.AllTypes {
			total, ok := s.policy.EntitlementDays[leaveType]
			if !ok {
				total = decimal.Zero
			}

			created, err := s.balanceRepo.Create(ctx, leave.Balance{
				EmployeeID: employeeID,
				LeaveType:  leaveType,
				Year:       year,
				TotalDays:  total,
				UsedDays:   decimal.Zero,
			})
			if err != nil {
				return err
			}
			balances = append(balances, created)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return balances, nil
}

// InitializeYear runs Initialize over the whole active roster. Already
// initialized employees count as skipped, other failures as failed; the batch
// never aborts on a per-employee error.
func (s *BalanceService) InitializeYear(ctx context.Context, act actor.Actor, year int) (leave.InitializeYearSummary, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return leave.InitializeYearSummary{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	summary := leave.InitializeYearSummary{Year: year}
	for _, emp := range employees {
		_, err := s.Initialize(ctx, act, emp.ID, year)
		switch {
		case err == nil:
			summary.Created++
		case errors.Is(err, leave.ErrAlreadyInitialized):
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	return summary, nil
}

// BalancesFor implements leave.BalanceStore.
func (s *BalanceService) BalancesFor(ctx context.Context, employeeID string, year int) ([]leave.BalanceResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	balances, err := s.balanceRepo.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewBalanceResponse(b))
	}
	return responses, nil
}
