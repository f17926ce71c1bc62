package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrcore/hr-engine-go/internal/domain/actor"
	"github.com/hrcore/hr-engine-go/internal/domain/employee"
	"github.com/hrcore/hr-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTxRunner runs the function directly; the fake repos below are mutated
// in place, so there is nothing to roll back.
type fakeTxRunner struct{}

func (fakeTxRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
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

type runKey struct {
	month int
	year  int
	scope string
}

type fakeRunRepo struct {
	runs  map[string]payroll.Run
	keys  map[runKey]string
	items map[string]payroll.LineItem
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{
		runs:  make(map[string]payroll.Run),
		keys:  make(map[runKey]string),
		items: make(map[string]payroll.LineItem),
	}
}

func (r *fakeRunRepo) CreateRun(_ context.Context, run payroll.Run) (payroll.Run, error) {
	scope := ""
	if run.DepartmentScope != nil {
		scope = *run.DepartmentScope
	}
	key := runKey{month: run.Month, year: run.Year, scope: scope}
	if _, exists := r.keys[key]; exists {
		return payroll.Run{}, payroll.ErrDuplicateRun
	}

	run.ID = uuid.NewString()
	run.CreatedAt = time.Now()
	run.UpdatedAt = run.CreatedAt
	r.runs[run.ID] = run
	r.keys[key] = run.ID
	return run, nil
}

func (r *fakeRunRepo) CreateLineItems(_ context.Context, items []payroll.LineItem) error {
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}

func (r *fakeRunRepo) SealRun(_ context.Context, run payroll.Run) (payroll.Run, error) {
	stored, ok := r.runs[run.ID]
	if !ok {
		return payroll.Run{}, payroll.ErrRunNotFound
	}
	if stored.Status != payroll.RunStatusDraft {
		return payroll.Run{}, payroll.ErrRunSealed
	}

	run.Status = payroll.RunStatusProcessed
	run.UpdatedAt = time.Now()
	r.runs[run.ID] = run
	return run, nil
}

func (r *fakeRunRepo) GetRunByID(_ context.Context, id string) (payroll.Run, error) {
	run, ok := r.runs[id]
	if !ok {
		return payroll.Run{}, payroll.ErrRunNotFound
	}
	return run, nil
}

func (r *fakeRunRepo) ListRuns(_ context.Context, filter payroll.RunFilter) ([]payroll.Run, error) {
	var out []payroll.Run
	for _, run := range r.runs {
		if filter.Month != nil && run.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && run.Year != *filter.Year {
			continue
		}
		if filter.Status != nil && run.Status != *filter.Status {
			continue
		}
		out = append(out, run)
	}
	return out, nil
}

func (r *fakeRunRepo) GetLineItem(_ context.Context, id string) (payroll.LineItem, error) {
	item, ok := r.items[id]
	if !ok {
		return payroll.LineItem{}, payroll.ErrLineItemNotFound
	}
	return item, nil
}

func (r *fakeRunRepo) GetLineItemByRunEmployee(_ context.Context, runID, employeeID string) (payroll.LineItem, error) {
	for _, item := range r.items {
		if item.PayrollRunID == runID && item.EmployeeID == employeeID {
			return item, nil
		}
	}
	return payroll.LineItem{}, payroll.ErrLineItemNotFound
}

func (r *fakeRunRepo) ListLineItems(_ context.Context, runID string) ([]payroll.LineItem, error) {
	var out []payroll.LineItem
	for _, item := range r.items {
		if item.PayrollRunID == runID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeRunRepo) UpdatePaymentStatus(_ context.Context, id string, status payroll.PaymentStatus, paymentDate *time.Time, paymentReference *string) error {
	item, ok := r.items[id]
	if !ok {
		return payroll.ErrLineItemNotFound
	}
	if item.PaymentStatus != payroll.PaymentStatusPending {
		return payroll.ErrPaymentSettled
	}

	item.PaymentStatus = status
	item.PaymentDate = paymentDate
	item.PaymentReference = paymentReference
	item.UpdatedAt = time.Now()
	r.items[id] = item
	return nil
}

func testEmployee(name, department, salary string, hireDate time.Time) employee.Employee {
	return employee.Employee{
		ID:              uuid.NewString(),
		FullName:        name,
		Department:      department,
		Status:          employee.StatusActive,
		HireDate:        hireDate,
		BaseSalary:      decimal.RequireFromString(salary),
		Allowances:      decimal.Zero,
		OtherDeductions: decimal.Zero,
	}
}

func hrActor() actor.Actor {
	return actor.Actor{EmployeeID: uuid.NewString(), Role: actor.RoleHR}
}

func TestRunService_Process(t *testing.T) {
	longAgo := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)

	empA := testEmployee("Thandi Nkosi", "engineering", "35000", longAgo)
	empA.Allowances = decimal.NewFromInt(2000)
	empA.OtherDeductions = decimal.NewFromInt(500)
	empB := testEmployee("Sipho Dlamini", "engineering", "12000", longAgo)
	empTerminated := testEmployee("Gone Person", "engineering", "50000", longAgo)
	empTerminated.Status = employee.StatusTerminated

	runRepo := newFakeRunRepo()
	svc := NewRunService(fakeTxRunner{}, runRepo,
		&fakeEmployeeRepo{employees: []employee.Employee{empA, empB, empTerminated}},
		NewTaxCalculator(), nil)

	resp, err := svc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 3, Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, string(payroll.RunStatusProcessed), resp.Status)
	assert.Equal(t, 2, resp.TotalEmployees)
	require.Len(t, resp.LineItems, 2)
	assert.NotNil(t, resp.ProcessedAt)
	assert.NotNil(t, resp.ProcessedBy)

	// Per line: gross - total deductions = net, and run totals are the sums.
	sumGross, sumDeductions, sumNet := decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range resp.LineItems {
		assert.True(t, item.GrossPay.Sub(item.TotalDeductions).Equal(item.NetPay),
			"line %s: gross %s - deductions %s != net %s", item.EmployeeID, item.GrossPay, item.TotalDeductions, item.NetPay)
		assert.Equal(t, string(payroll.PaymentStatusPending), item.PaymentStatus)
		sumGross = sumGross.Add(item.GrossPay)
		sumDeductions = sumDeductions.Add(item.TotalDeductions)
		sumNet = sumNet.Add(item.NetPay)
	}
	assert.True(t, sumGross.Equal(resp.TotalGrossPay))
	assert.True(t, sumDeductions.Equal(resp.TotalDeductions))
	assert.True(t, sumNet.Equal(resp.TotalNetPay))

	// Pin empA's numbers: gross 37000, PAYE 5100, UIF 177.12, other 500.
	var lineA *payroll.LineItemResponse
	for i := range resp.LineItems {
		if resp.LineItems[i].EmployeeID == empA.ID {
			lineA = &resp.LineItems[i]
		}
	}
	require.NotNil(t, lineA)
	assert.True(t, decimal.NewFromInt(37000).Equal(lineA.GrossPay), "gross = %s", lineA.GrossPay)
	assert.True(t, decimal.NewFromInt(5100).Equal(lineA.PAYE), "paye = %s", lineA.PAYE)
	assert.True(t, decimal.RequireFromString("177.12").Equal(lineA.UIF), "uif = %s", lineA.UIF)
	assert.True(t, decimal.RequireFromString("5777.12").Equal(lineA.TotalDeductions), "deductions = %s", lineA.TotalDeductions)
	assert.True(t, decimal.RequireFromString("31222.88").Equal(lineA.NetPay), "net = %s", lineA.NetPay)
}

func TestRunService_Process_DuplicateRun(t *testing.T) {
	longAgo := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	runRepo := newFakeRunRepo()
	svc := NewRunService(fakeTxRunner{}, runRepo,
		&fakeEmployeeRepo{employees: []employee.Employee{testEmployee("A", "ops", "10000", longAgo)}},
		NewTaxCalculator(), nil)

	first, err := svc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 3, Year: 2025})
	require.NoError(t, err)

	_, err = svc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 3, Year: 2025})
	assert.ErrorIs(t, err, payroll.ErrDuplicateRun)

	// The first run is untouched.
	got, err := svc.GetRun(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.TotalEmployees, got.TotalEmployees)
	assert.True(t, first.TotalNetPay.Equal(got.TotalNetPay))

	// Same month under a different scope is a distinct run.
	scope := "ops"
	_, err = svc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 3, Year: 2025, DepartmentScope: &scope})
	assert.NoError(t, err)
}

func TestRunService_Process_DepartmentScope(t *testing.T) {
	longAgo := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	runRepo := newFakeRunRepo()
	svc := NewRunService(fakeTxRunner{}, runRepo,
		&fakeEmployeeRepo{employees: []employee.Employee{
			testEmployee("A", "engineering", "10000", longAgo),
			testEmployee("B", "finance", "10000", longAgo),
		}},
		NewTaxCalculator(), nil)

	scope := "finance"
	resp, err := svc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 5, Year: 2025, DepartmentScope: &scope})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalEmployees)

	scope = "legal"
	_, err = svc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 5, Year: 2025, DepartmentScope: &scope})
	assert.ErrorIs(t, err, payroll.ErrNoEligibleEmployees)
}

func TestRunService_Process_Proration(t *testing.T) {
	// Hired on the 16th of a 30-day month: 15 of 30 days.
	midMonthHire := testEmployee("New Hire", "ops", "30000", time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC))
	// Hired after the period: excluded entirely.
	futureHire := testEmployee("Future Hire", "ops", "30000", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	runRepo := newFakeRunRepo()
	svc := NewRunService(fakeTxRunner{}, runRepo,
		&fakeEmployeeRepo{employees: []employee.Employee{midMonthHire, futureHire}},
		NewTaxCalculator(), nil)

	resp, err := svc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 4, Year: 2025})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalEmployees)
	assert.True(t, decimal.NewFromInt(15000).Equal(resp.LineItems[0].GrossPay),
		"prorated gross = %s", resp.LineItems[0].GrossPay)
}

func TestRunService_Process_InvalidRequest(t *testing.T) {
	svc := NewRunService(fakeTxRunner{}, newFakeRunRepo(), &fakeEmployeeRepo{}, NewTaxCalculator(), nil)

	_, err := svc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 13, Year: 2025})
	assert.Error(t, err)
}

func TestRunService_Process_CancelledContext(t *testing.T) {
	longAgo := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	svc := NewRunService(fakeTxRunner{}, newFakeRunRepo(),
		&fakeEmployeeRepo{employees: []employee.Employee{testEmployee("A", "ops", "10000", longAgo)}},
		NewTaxCalculator(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Process(ctx, hrActor(), payroll.ProcessRunRequest{Month: 4, Year: 2025})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunService_UpdatePaymentStatus(t *testing.T) {
	longAgo := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	runRepo := newFakeRunRepo()
	svc := NewRunService(fakeTxRunner{}, runRepo,
		&fakeEmployeeRepo{employees: []employee.Employee{testEmployee("A", "ops", "10000", longAgo)}},
		NewTaxCalculator(), nil)

	resp, err := svc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 7, Year: 2025})
	require.NoError(t, err)
	lineID := resp.LineItems[0].ID

	date := "2025-07-28"
	ref := "EFT-0042"
	item, err := svc.UpdatePaymentStatus(context.Background(), hrActor(), payroll.UpdatePaymentStatusRequest{
		LineItemID:       lineID,
		Status:           string(payroll.PaymentStatusPaid),
		PaymentDate:      &date,
		PaymentReference: &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, string(payroll.PaymentStatusPaid), item.PaymentStatus)
	require.NotNil(t, item.PaymentDate)
	assert.Equal(t, "2025-07-28", *item.PaymentDate)
	require.NotNil(t, item.PaymentReference)
	assert.Equal(t, "EFT-0042", *item.PaymentReference)

	// A settled item cannot move again.
	_, err = svc.UpdatePaymentStatus(context.Background(), hrActor(), payroll.UpdatePaymentStatusRequest{
		LineItemID: lineID,
		Status:     string(payroll.PaymentStatusFailed),
	})
	assert.ErrorIs(t, err, payroll.ErrPaymentSettled)
}

func TestRunService_UpdatePaymentStatus_Validation(t *testing.T) {
	svc := NewRunService(fakeTxRunner{}, newFakeRunRepo(), &fakeEmployeeRepo{}, NewTaxCalculator(), nil)

	_, err := svc.UpdatePaymentStatus(context.Background(), hrActor(), payroll.UpdatePaymentStatusRequest{
		LineItemID: uuid.NewString(),
		Status:     "pending",
	})
	assert.Error(t, err, "pending is not a settlement status")

	_, err = svc.UpdatePaymentStatus(context.Background(), hrActor(), payroll.UpdatePaymentStatusRequest{
		LineItemID: uuid.NewString(),
		Status:     string(payroll.PaymentStatusPaid),
	})
	assert.ErrorIs(t, err, payroll.ErrLineItemNotFound)
}

func TestRunService_ListRuns(t *testing.T) {
	longAgo := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	runRepo := newFakeRunRepo()
	svc := NewRunService(fakeTxRunner{}, runRepo,
		&fakeEmployeeRepo{employees: []employee.Employee{testEmployee("A", "ops", "10000", longAgo)}},
		NewTaxCalculator(), nil)

	for month := 1; month <= 3; month++ {
		_, err := svc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: month, Year: 2025})
		require.NoError(t, err)
	}

	all, err := svc.ListRuns(context.Background(), payroll.RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	month := 2
	filtered, err := svc.ListRuns(context.Background(), payroll.RunFilter{Month: &month})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, 2, filtered[0].Month)
	assert.Empty(t, filtered[0].LineItems, "listings carry headers only")
}

func TestLinearProration(t *testing.T) {
	salary := decimal.NewFromInt(30000)

	tests := []struct {
		name     string
		hireDate time.Time
		expected string
	}{
		{name: "hired before the month", hireDate: time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC), expected: "30000"},
		{name: "hired on the first", hireDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), expected: "30000"},
		{name: "hired mid-month", hireDate: time.Date(2025, 4, 16, 0, 0, 0, 0, time.UTC), expected: "15000"},
		{name: "hired on the last day", hireDate: time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), expected: "1000"},
		{name: "hired after the month", hireDate: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC), expected: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinearProration(salary, tt.hireDate, 4, 2025)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}
