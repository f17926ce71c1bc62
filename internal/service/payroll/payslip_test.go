package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hrcore/hr-engine-go/internal/domain/employee"
	"github.com/hrcore/hr-engine-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayslipService_Payslip(t *testing.T) {
	longAgo := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	emp := testEmployee("Thandi Nkosi", "engineering", "35000", longAgo)
	other := testEmployee("Sipho Dlamini", "finance", "12000", longAgo)

	runRepo := newFakeRunRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{emp, other}}
	runSvc := NewRunService(fakeTxRunner{}, runRepo, employeeRepo, NewTaxCalculator(), nil)

	run, err := runSvc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 3, Year: 2025})
	require.NoError(t, err)

	svc := NewPayslipService(runRepo, employeeRepo)

	slip, err := svc.Payslip(context.Background(), emp.ID, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, slip.RunID)
	assert.Equal(t, 3, slip.Month)
	assert.Equal(t, 2025, slip.Year)
	assert.Equal(t, "Thandi Nkosi", slip.EmployeeName)
	assert.Equal(t, "engineering", slip.Department)
	assert.True(t, decimal.NewFromInt(35000).Equal(slip.GrossPay))
	assert.True(t, decimal.NewFromInt(4500).Equal(slip.PAYE))
	assert.True(t, decimal.RequireFromString("177.12").Equal(slip.UIF))
	assert.True(t, slip.GrossPay.Sub(slip.TotalDeductions).Equal(slip.NetPay))
	assert.NotNil(t, slip.ProcessedAt)
}

func TestPayslipService_Payslip_NotFound(t *testing.T) {
	longAgo := time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)
	emp := testEmployee("A", "ops", "10000", longAgo)
	outsider := testEmployee("B", "legal", "10000", longAgo)
	outsider.Status = employee.StatusTerminated

	runRepo := newFakeRunRepo()
	employeeRepo := &fakeEmployeeRepo{employees: []employee.Employee{emp, outsider}}
	runSvc := NewRunService(fakeTxRunner{}, runRepo, employeeRepo, NewTaxCalculator(), nil)

	run, err := runSvc.Process(context.Background(), hrActor(), payroll.ProcessRunRequest{Month: 3, Year: 2025})
	require.NoError(t, err)

	svc := NewPayslipService(runRepo, employeeRepo)

	_, err = svc.Payslip(context.Background(), emp.ID, uuid.NewString())
	assert.ErrorIs(t, err, payroll.ErrRunNotFound)

	// Employee exists but has no line item in this run.
	_, err = svc.Payslip(context.Background(), outsider.ID, run.ID)
	assert.ErrorIs(t, err, payroll.ErrLineItemNotFound)
}
