package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/hrcore/hr-engine-go/internal/domain/actor"
	"github.com/hrcore/hr-engine-go/internal/domain/employee"
	"github.com/hrcore/hr-engine-go/internal/domain/leave"
	"github.com/hrcore/hr-engine-go/internal/pkg/database"
	"github.com/hrcore/hr-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// RequestService implements leave.RequestLedger. Balance is reserved only on
// approval; submission is advisory so an employee is not penalized for a
// request still awaiting a decision.
type RequestService struct {
	tx           database.TxRunner
	requestRepo  leave.RequestRepository
	balanceRepo  leave.BalanceRepository
	employeeRepo employee.Repository
	cycle        leave.CycleTracker
	policy       leave.Policy
}

func NewRequestService(
	tx database.TxRunner,
	requestRepo leave.RequestRepository,
	balanceRepo leave.BalanceRepository,
	employeeRepo employee.Repository,
	cycle leave.CycleTracker,
	policy leave.Policy,
) *RequestService {
	return &RequestService{
		tx:           tx,
		requestRepo:  requestRepo,
		balanceRepo:  balanceRepo,
		employeeRepo: employeeRepo,
		cycle:        cycle,
		policy:       policy,
	}
}

// CountWeekdays counts days in [start, end] that are not Saturday or Sunday.
// No holiday calendar.
func CountWeekdays(start, end time.Time) int {
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		days++
	}
	return days
}

// Submit validates the request and records it as pending without consuming
// balance. Concurrent pending requests can together exceed the balance;
// approval re-validates, so this is an accepted race.
func (s *RequestService) Submit(ctx context.Context, act actor.Actor, req leave.SubmitRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	startDate, _ := validator.IsValidDate(req.StartDate)
	endDate, _ := validator.IsValidDate(req.EndDate)
	leaveType := leave.Type(req.LeaveType)

	weekdays := CountWeekdays(startDate, endDate)
	if weekdays == 0 {
		return leave.RequestResponse{}, validator.ValidationErrors{
			{Field: "start_date", Message: "range contains no working days"},
		}
	}
	numberOfDays := decimal.NewFromInt(int64(weekdays))

	if err := s.checkCapacity(ctx, emp.ID, leaveType, startDate.Year(), numberOfDays); err != nil {
		return leave.RequestResponse{}, err
	}

	created, err := s.requestRepo.Create(ctx, leave.Request{
		EmployeeID:   emp.ID,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		NumberOfDays: numberOfDays,
		Status:       leave.RequestStatusPending,
		Reason:       req.Reason,
	})
	if err != nil {
		return leave.RequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return leave.NewRequestResponse(created), nil
}

// checkCapacity applies the cap relevant to the leave type: the rolling cycle
// for sick leave, the year balance otherwise, nothing for uncapped types.
func (s *RequestService) checkCapacity(ctx context.Context, employeeID string, leaveType leave.Type, year int, days decimal.Decimal) error {
	if leaveType.Uncapped() {
		return nil
	}

	if leaveType == leave.TypeSick {
		remaining, err := s.cycle.RemainingInCycle(ctx, employeeID, year)
		if err != nil {
			return err
		}
		if days.GreaterThan(remaining) {
			return fmt.Errorf("%w: %s days remaining in sick cycle, %s requested",
				leave.ErrInsufficientBalance, remaining.String(), days.String())
		}
		return nil
	}

	balance, err := s.balanceRepo.GetByEmployeeTypeYear(ctx, employeeID, leaveType, year)
	if err != nil {
		return err
	}
	if days.GreaterThan(balance.RemainingDays()) {
		return fmt.Errorf("%w: %s days remaining, %s requested",
			leave.ErrInsufficientBalance, balance.RemainingDays().String(), days.String())
	}
	return nil
}

// Approve re-validates the balance at decision time and consumes it
// atomically with the status transition. The balance check lives in the
// consume statement itself, so concurrent approvals for the same employee and
// type cannot both pass.
func (s *RequestService) Approve(ctx context.Context, act actor.Actor, requestID string) (leave.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status.Terminal() {
		return leave.RequestResponse{}, leave.ErrAlreadyProcessed
	}

	year := request.StartDate.Year()
	decidedAt := time.Now()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.consume(ctx, request, year); err != nil {
			return err
		}
		return s.requestRepo.Transition(ctx, request.ID,
			leave.RequestStatusPending, leave.RequestStatusApproved,
			&act.EmployeeID, nil, decidedAt)
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	request.Status = leave.RequestStatusApproved
	request.ApproverID = &act.EmployeeID
	request.DecidedAt = &decidedAt
	return leave.NewRequestResponse(request), nil
}

func (s *RequestService) consume(ctx context.Context, request leave.Request, year int) error {
	if request.LeaveType == leave.TypeSick {
		window, err := s.cycle.CycleFor(ctx, request.EmployeeID, year)
		if err != nil {
			return err
		}
		return s.balanceRepo.ConsumeSick(ctx, request.EmployeeID, year, request.NumberOfDays,
			window.CycleStartYear, window.CycleEndYear, window.TotalAllowance)
	}
	return s.balanceRepo.Consume(ctx, request.EmployeeID, request.LeaveType, year,
		request.NumberOfDays, !request.LeaveType.Uncapped())
}

// Reject implements leave.RequestLedger. A pure status transition; nothing
// was consumed at submission.
func (s *RequestService) Reject(ctx context.Context, act actor.Actor, req leave.RejectRequestRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	request, err := s.requestRepo.GetByID(ctx, req.RequestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.Status.Terminal() {
		return leave.RequestResponse{}, leave.ErrAlreadyProcessed
	}

	decidedAt := time.Now()
	if err := s.requestRepo.Transition(ctx, request.ID,
		leave.RequestStatusPending, leave.RequestStatusRejected,
		&act.EmployeeID, &req.Reason, decidedAt); err != nil {
		return leave.RequestResponse{}, err
	}

	request.Status = leave.RequestStatusRejected
	request.ApproverID = &act.EmployeeID
	request.RejectionReason = &req.Reason
	request.DecidedAt = &decidedAt
	return leave.NewRequestResponse(request), nil
}

// Cancel implements leave.RequestLedger. Only the requesting employee or an
// HR-capable actor may cancel. Cancelling an approved request releases the
// consumed balance before the transition, in one transaction.
func (s *RequestService) Cancel(ctx context.Context, act actor.Actor, requestID string) (leave.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.EmployeeID != act.EmployeeID && !act.CanApprove() {
		return leave.RequestResponse{}, leave.ErrNotRequestOwner
	}

	decidedAt := time.Now()

	switch request.Status {
	case leave.RequestStatusPending:
		err = s.requestRepo.Transition(ctx, request.ID,
			leave.RequestStatusPending, leave.RequestStatusCancelled,
			&act.EmployeeID, nil, decidedAt)
	case leave.RequestStatusApproved:
		err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := s.balanceRepo.Release(ctx, request.EmployeeID, request.LeaveType,
				request.StartDate.Year(), request.NumberOfDays); err != nil {
				return err
			}
			return s.requestRepo.Transition(ctx, request.ID,
				leave.RequestStatusApproved, leave.RequestStatusCancelled,
				&act.EmployeeID, nil, decidedAt)
		})
	default:
		return leave.RequestResponse{}, leave.ErrAlreadyProcessed
	}
	if err != nil {
		return leave.RequestResponse{}, err
	}

	request.Status = leave.RequestStatusCancelled
	request.DecidedAt = &decidedAt
	return leave.NewRequestResponse(request), nil
}

// List implements leave.RequestLedger.
func (s *RequestService) List(ctx context.Context, filter leave.RequestFilter) ([]leave.RequestResponse, error) {
	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.RequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, leave.NewRequestResponse(request))
	}
	return responses, nil
}
