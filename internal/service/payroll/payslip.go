package payroll

import (
	"context"

	"github.com/hrcore/hr-engine-go/internal/domain/employee"
	"github.com/hrcore/hr-engine-go/internal/domain/payroll"
)

var _ payroll.PayslipProjector = (*PayslipService)(nil)

// PayslipService implements payroll.PayslipProjector. Pure read model; it
// never touches run or line-item state.
type PayslipService struct {
	runRepo      payroll.RunRepository
	employeeRepo employee.Repository
}

func NewPayslipService(runRepo payroll.RunRepository, employeeRepo employee.Repository) *PayslipService {
	return &PayslipService{
		runRepo:      runRepo,
		employeeRepo: employeeRepo,
	}
}

func (s *PayslipService) Payslip(ctx context.Context, employeeID, runID string) (payroll.PayslipResponse, error) {
	run, err := s.runRepo.GetRunByID(ctx, runID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	item, err := s.runRepo.GetLineItemByRunEmployee(ctx, runID, employeeID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	view := payroll.PayslipView{
		RunID:           run.ID,
		Month:           run.Month,
		Year:            run.Year,
		ProcessedAt:     run.ProcessedAt,
		EmployeeID:      emp.ID,
		EmployeeName:    emp.FullName,
		Department:      emp.Department,
		GrossPay:        item.GrossPay,
		Allowances:      item.Allowances,
		PAYE:            item.PAYE,
		UIF:             item.UIF,
		OtherDeductions: item.OtherDeductions,
		TotalDeductions: item.TotalDeductions,
		NetPay:          item.NetPay,
		PaymentStatus:   item.PaymentStatus,
		PaymentDate:     item.PaymentDate,
	}
	return payroll.NewPayslipResponse(view), nil
}
