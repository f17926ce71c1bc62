package leave

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hrcore/hr-engine-go/internal/domain/actor"
	"github.com/hrcore/hr-engine-go/internal/domain/employee"
	"github.com/hrcore/hr-engine-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
	failOn    map[string]error
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if err, ok := r.failOn[id]; ok {
		return employee.Employee{}, err
	}
	for _, emp := range r.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.Status == employee.StatusActive {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) ListActiveByDepartment(_ context.Context, department string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.Status == employee.StatusActive && emp.Department == department {
			out = append(out, emp)
		}
	}
	return out, nil
}

type balanceKey struct {
	employeeID string
	leaveType  leave.Type
	year       int
}

type fakeBalanceRepo struct {
	balances map[balanceKey]leave.Balance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[balanceKey]leave.Balance)}
}

func (r *fakeBalanceRepo) seed(employeeID string, leaveType leave.Type, year int, total, used decimal.Decimal) {
	key := balanceKey{employeeID: employeeID, leaveType: leaveType, year: year}
	r.balances[key] = leave.Balance{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		Year:       year,
		TotalDays:  total,
		UsedDays:   used,
	}
}

func (r *fakeBalanceRepo) Create(_ context.Context, balance leave.Balance) (leave.Balance, error) {
	key := balanceKey{employeeID: balance.EmployeeID, leaveType: balance.LeaveType, year: balance.Year}
	if _, exists := r.balances[key]; exists {
		return leave.Balance{}, leave.ErrAlreadyInitialized
	}

	balance.ID = uuid.NewString()
	balance.CreatedAt = time.Now()
	balance.UpdatedAt = balance.CreatedAt
	r.balances[key] = balance
	return balance, nil
}

func (r *fakeBalanceRepo) GetByEmployeeTypeYear(_ context.Context, employeeID string, leaveType leave.Type, year int) (leave.Balance, error) {
	balance, ok := r.balances[balanceKey{employeeID: employeeID, leaveType: leaveType, year: year}]
	if !ok {
		return leave.Balance{}, leave.ErrBalanceNotFound
	}
	return balance, nil
}

func (r *fakeBalanceRepo) GetByEmployeeYear(_ context.Context, employeeID string, year int) ([]leave.Balance, error) {
	var out []leave.Balance
	for key, balance := range r.balances {
		if key.employeeID == employeeID && key.year == year {
			out = append(out, balance)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) SickUsageInYears(_ context.Context, employeeID string, fromYear, toYear int) (decimal.Decimal, error) {
	used := decimal.Zero
	for key, balance := range r.balances {
		if key.employeeID == employeeID && key.leaveType == leave.TypeSick &&
			key.year >= fromYear && key.year <= toYear {
			used = used.Add(balance.UsedDays)
		}
	}
	return used, nil
}

func (r *fakeBalanceRepo) Consume(_ context.Context, employeeID string, leaveType leave.Type, year int, days decimal.Decimal, capped bool) error {
	key := balanceKey{employeeID: employeeID, leaveType: leaveType, year: year}
	balance, ok := r.balances[key]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if capped && balance.UsedDays.Add(days).GreaterThan(balance.TotalDays) {
		return leave.ErrInsufficientBalance
	}

	balance.UsedDays = balance.UsedDays.Add(days)
	r.balances[key] = balance
	return nil
}

func (r *fakeBalanceRepo) ConsumeSick(ctx context.Context, employeeID string, year int, days decimal.Decimal, cycleStart, cycleEnd int, allowance decimal.Decimal) error {
	key := balanceKey{employeeID: employeeID, leaveType: leave.TypeSick, year: year}
	balance, ok := r.balances[key]
	if !ok {
		return leave.ErrBalanceNotFound
	}

	used, _ := r.SickUsageInYears(ctx, employeeID, cycleStart, cycleEnd)
	if used.Add(days).GreaterThan(allowance) {
		return leave.ErrInsufficientBalance
	}

	balance.UsedDays = balance.UsedDays.Add(days)
	r.balances[key] = balance
	return nil
}

func (r *fakeBalanceRepo) Release(_ context.Context, employeeID string, leaveType leave.Type, year int, days decimal.Decimal) error {
	key := balanceKey{employeeID: employeeID, leaveType: leaveType, year: year}
	balance, ok := r.balances[key]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	if balance.UsedDays.Sub(days).IsNegative() {
		return leave.ErrBalanceInvariant
	}

	balance.UsedDays = balance.UsedDays.Sub(days)
	r.balances[key] = balance
	return nil
}

type fakeRequestRepo struct {
	requests map[string]leave.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[string]leave.Request)}
}

func (r *fakeRequestRepo) Create(_ context.Context, request leave.Request) (leave.Request, error) {
	request.ID = uuid.NewString()
	request.SubmittedAt = time.Now()
	request.CreatedAt = request.SubmittedAt
	request.UpdatedAt = request.SubmittedAt
	r.requests[request.ID] = request
	return request, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.Request, error) {
	request, ok := r.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return request, nil
}

func (r *fakeRequestRepo) List(_ context.Context, filter leave.RequestFilter) ([]leave.Request, error) {
	var out []leave.Request
	for _, request := range r.requests {
		if filter.EmployeeID != nil && request.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && request.Status != *filter.Status {
			continue
		}
		out = append(out, request)
	}
	return out, nil
}

func (r *fakeRequestRepo) Transition(_ context.Context, id string, from, to leave.RequestStatus, approverID *string, rejectionReason *string, decidedAt time.Time) error {
	request, ok := r.requests[id]
	if !ok {
		return leave.ErrRequestNotFound
	}
	if request.Status != from {
		return leave.ErrAlreadyProcessed
	}

	request.Status = to
	request.ApproverID = approverID
	request.RejectionReason = rejectionReason
	request.DecidedAt = &decidedAt
	request.UpdatedAt = decidedAt
	r.requests[id] = request
	return nil
}

func activeEmployee(name string, hireDate time.Time) employee.Employee {
	return employee.Employee{
		ID:         uuid.NewString(),
		FullName:   name,
		Department: "engineering",
		Status:     employee.StatusActive,
		HireDate:   hireDate,
		BaseSalary: decimal.NewFromInt(20000),
	}
}

func hrActor() actor.Actor {
	return actor.Actor{EmployeeID: uuid.NewString(), Role: actor.RoleHR}
}

func actorFor(emp employee.Employee) actor.Actor {
	return actor.Actor{EmployeeID: emp.ID, Role: actor.RoleEmployee}
}
