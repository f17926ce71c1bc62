package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hrcore/hr-engine-go/internal/domain/actor"
	"github.com/hrcore/hr-engine-go/internal/domain/employee"
	"github.com/hrcore/hr-engine-go/internal/domain/payroll"
	"github.com/hrcore/hr-engine-go/internal/pkg/database"
	"github.com/hrcore/hr-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ProrationPolicy computes the base-salary portion owed for the period when
// an employee was hired mid-month. Injected because the pro-ration formula is
// company policy, not engine logic.
type ProrationPolicy func(baseSalary decimal.Decimal, hireDate time.Time, month, year int) decimal.Decimal

// LinearProration pays the calendar-day share from the hire date to month
// end. Full month when hired on or before the first day.
func LinearProration(baseSalary decimal.Decimal, hireDate time.Time, month, year int) decimal.Decimal {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	if !hireDate.After(monthStart) {
		return baseSalary
	}
	if hireDate.After(monthEnd) {
		return decimal.Zero
	}

	daysInMonth := decimal.NewFromInt(int64(monthEnd.Day()))
	daysWorked := decimal.NewFromInt(int64(monthEnd.Day() - hireDate.Day() + 1))
	return baseSalary.Mul(daysWorked).Div(daysInMonth).Round(2)
}

var _ payroll.RunProcessor = (*RunService)(nil)

// RunService implements payroll.RunProcessor.
type RunService struct {
	tx           database.TxRunner
	runRepo      payroll.RunRepository
	employeeRepo employee.Repository
	tax          payroll.TaxCalculator
	proration    ProrationPolicy
}

func NewRunService(
	tx database.TxRunner,
	runRepo payroll.RunRepository,
	employeeRepo employee.Repository,
	tax payroll.TaxCalculator,
	proration ProrationPolicy,
) *RunService {
	if proration == nil {
		proration = LinearProration
	}
	return &RunService{
		tx:           tx,
		runRepo:      runRepo,
		employeeRepo: employeeRepo,
		tax:          tax,
		proration:    proration,
	}
}

// Process selects the roster in scope, computes one line item per employee in
// parallel, and writes the run header, every line item and the status flip in
// a single transaction. A partial failure rolls the whole run back; nothing
// ever observes a processed run with a partial line-item set.
func (s *RunService) Process(ctx context.Context, act actor.Actor, req payroll.ProcessRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	var employees []employee.Employee
	var err error
	if req.DepartmentScope != nil {
		employees, err = s.employeeRepo.ListActiveByDepartment(ctx, *req.DepartmentScope)
	} else {
		employees, err = s.employeeRepo.ListActive(ctx)
	}
	if err != nil {
		return payroll.RunResponse{}, fmt.Errorf("failed to select employees in scope: %w", err)
	}

	items, err := s.computeLineItems(ctx, employees, req.Month, req.Year)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if len(items) == 0 {
		return payroll.RunResponse{}, payroll.ErrNoEligibleEmployees
	}

	totalGross, totalDeductions, totalNet := decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range items {
		totalGross = totalGross.Add(item.GrossPay)
		totalDeductions = totalDeductions.Add(item.TotalDeductions)
		totalNet = totalNet.Add(item.NetPay)
	}

	processedAt := time.Now()
	var sealed payroll.Run
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		run, err := s.runRepo.CreateRun(ctx, payroll.Run{
			Month:           req.Month,
			Year:            req.Year,
			DepartmentScope: req.DepartmentScope,
			Status:          payroll.RunStatusDraft,
			Notes:           req.Notes,
		})
		if err != nil {
			return err
		}

		for i := range items {
			items[i].PayrollRunID = run.ID
		}
		if err := s.runRepo.CreateLineItems(ctx, items); err != nil {
			return err
		}

		run.TotalEmployees = len(items)
		run.TotalGrossPay = totalGross
		run.TotalDeductions = totalDeductions
		run.TotalNetPay = totalNet
		run.ProcessedAt = &processedAt
		run.ProcessedBy = &act.EmployeeID

		sealed, err = s.runRepo.SealRun(ctx, run)
		return err
	})
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return payroll.NewRunResponse(sealed, items), nil
}

// computeLineItems fans the per-employee computation out; there is no shared
// mutable state between employees, each goroutine writes its own slot.
// Employees hired after the period produce no line item.
func (s *RunService) computeLineItems(ctx context.Context, employees []employee.Employee, month, year int) ([]payroll.LineItem, error) {
	slots := make([]*payroll.LineItem, len(employees))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slots[i] = s.computeLineItem(emp, month, year)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]payroll.LineItem, 0, len(employees))
	for _, slot := range slots {
		if slot != nil {
			items = append(items, *slot)
		}
	}
	return items, nil
}

func (s *RunService) computeLineItem(emp employee.Employee, month, year int) *payroll.LineItem {
	base := s.proration(emp.BaseSalary, emp.HireDate, month, year)
	if base.IsZero() && emp.HireDate.After(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)) {
		// Hired after the period; no line item, payslip lookups return NotFound.
		return nil
	}

	gross := base.Add(emp.Allowances)
	paye := s.tax.PAYE(gross)
	uif := s.tax.UIF(gross)
	totalDeductions := paye.Add(uif).Add(emp.OtherDeductions)
	net := gross.Sub(totalDeductions)

	return &payroll.LineItem{
		ID:              uuid.NewString(),
		EmployeeID:      emp.ID,
		GrossPay:        gross,
		Allowances:      emp.Allowances,
		PAYE:            paye,
		UIF:             uif,
		OtherDeductions: emp.OtherDeductions,
		TotalDeductions: totalDeductions,
		NetPay:          net,
		PaymentStatus:   payroll.PaymentStatusPending,
	}
}

// UpdatePaymentStatus implements payroll.RunProcessor. Operates on the line
// item alone; the sealed run is never reopened.
func (s *RunService) UpdatePaymentStatus(ctx context.Context, act actor.Actor, req payroll.UpdatePaymentStatusRequest) (payroll.LineItemResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.LineItemResponse{}, err
	}

	var paymentDate *time.Time
	if req.PaymentDate != nil {
		d, _ := validator.IsValidDate(*req.PaymentDate)
		paymentDate = &d
	}

	if err := s.runRepo.UpdatePaymentStatus(ctx, req.LineItemID,
		payroll.PaymentStatus(req.Status), paymentDate, req.PaymentReference); err != nil {
		return payroll.LineItemResponse{}, err
	}

	item, err := s.runRepo.GetLineItem(ctx, req.LineItemID)
	if err != nil {
		return payroll.LineItemResponse{}, err
	}
	return payroll.NewLineItemResponse(item), nil
}

// GetRun implements payroll.RunProcessor.
func (s *RunService) GetRun(ctx context.Context, runID string) (payroll.RunResponse, error) {
	run, err := s.runRepo.GetRunByID(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	items, err := s.runRepo.ListLineItems(ctx, runID)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	return payroll.NewRunResponse(run, items), nil
}

// ListRuns implements payroll.RunProcessor. Headers only.
func (s *RunService) ListRuns(ctx context.Context, filter payroll.RunFilter) ([]payroll.RunResponse, error) {
	runs, err := s.runRepo.ListRuns(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.RunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, payroll.NewRunResponse(run, nil))
	}
	return responses, nil
}
