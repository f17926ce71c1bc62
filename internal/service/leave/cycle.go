package leave

import (
	"context"
	"fmt"

	"github.com/hrcore/hr-engine-go/internal/domain/employee"
	"github.com/hrcore/hr-engine-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// CycleService implements leave.CycleTracker. Read-mostly; everything is
// recomputed from balance history on demand.
type CycleService struct {
	balanceRepo  leave.BalanceRepository
	employeeRepo employee.Repository
	policy       leave.Policy
}

func NewCycleService(
	balanceRepo leave.BalanceRepository,
	employeeRepo employee.Repository,
	policy leave.Policy,
) *CycleService {
	return &CycleService{
		balanceRepo:  balanceRepo,
		employeeRepo: employeeRepo,
		policy:       policy,
	}
}

// CycleFor derives the rolling window [asOfYear-(n-1), asOfYear], clipped to
// the employment start year. The allowance is a cycle-wide constant, not
// additive per year; years without a balance row contribute zero.
func (s *CycleService) CycleFor(ctx context.Context, employeeID string, asOfYear int) (leave.CycleWindow, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return leave.CycleWindow{}, err
	}

	startYear := asOfYear - (s.policy.SickCycleYears - 1)
	if hireYear := emp.HireDate.Year(); hireYear > startYear {
		startYear = hireYear
	}

	used, err := s.balanceRepo.SickUsageInYears(ctx, employeeID, startYear, asOfYear)
	if err != nil {
		return leave.CycleWindow{}, fmt.Errorf("failed to sum sick usage: %w", err)
	}

	return leave.CycleWindow{
		EmployeeID:     employeeID,
		CycleStartYear: startYear,
		CycleEndYear:   asOfYear,
		TotalAllowance: s.policy.SickCycleAllowance,
		UsedInCycle:    used,
	}, nil
}

// RemainingInCycle implements leave.CycleTracker.
func (s *CycleService) RemainingInCycle(ctx context.Context, employeeID string, asOfYear int) (decimal.Decimal, error) {
	window, err := s.CycleFor(ctx, employeeID, asOfYear)
	if err != nil {
		return decimal.Zero, err
	}
	return window.RemainingInCycle(), nil
}

// CycleReport assembles the window for every active employee.
func (s *CycleService) CycleReport(ctx context.Context, year int) (leave.CycleReportResponse, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return leave.CycleReportResponse{}, err
	}

	report := leave.CycleReportResponse{Year: year}
	for _, emp := range employees {
		window, err := s.CycleFor(ctx, emp.ID, year)
		if err != nil {
			return leave.CycleReportResponse{}, err
		}

		name := emp.FullName
		report.Windows = append(report.Windows, leave.CycleWindowResponse{
			EmployeeID:       window.EmployeeID,
			EmployeeName:     &name,
			CycleStartYear:   window.CycleStartYear,
			CycleEndYear:     window.CycleEndYear,
			TotalAllowance:   window.TotalAllowance,
			UsedInCycle:      window.UsedInCycle,
			RemainingInCycle: window.RemainingInCycle(),
		})
	}

	return report, nil
}
