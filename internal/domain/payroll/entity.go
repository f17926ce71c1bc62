package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus enum
type RunStatus string

const (
	RunStatusDraft     RunStatus = "draft"
	RunStatusProcessed RunStatus = "processed"
)

// PaymentStatus enum
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// Run - one sealed batch of payslip computations. Unique per
// (month, year, department_scope); immutable once processed.
type Run struct {
	ID              string
	Month           int
	Year            int
	DepartmentScope *string
	Status          RunStatus

	TotalEmployees  int
	TotalGrossPay   decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNetPay     decimal.Decimal

	ProcessedAt *time.Time
	ProcessedBy *string
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItem - one employee's computed pay record within a run. Created
// atomically with the run seal; immutable afterwards except the payment
// fields, which disbursement updates per employee.
type LineItem struct {
	ID           string
	PayrollRunID string
	EmployeeID   string

	GrossPay        decimal.Decimal
	Allowances      decimal.Decimal
	PAYE            decimal.Decimal
	UIF             decimal.Decimal
	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal

	PaymentStatus    PaymentStatus
	PaymentDate      *time.Time
	PaymentReference *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields (for responses)
	EmployeeName *string
}

// PayslipView assembles one employee + run into a presentable payslip.
// Derived; holds no independent storage.
type PayslipView struct {
	RunID           string
	Month           int
	Year            int
	ProcessedAt     *time.Time
	EmployeeID      string
	EmployeeName    string
	Department      string
	GrossPay        decimal.Decimal
	Allowances      decimal.Decimal
	PAYE            decimal.Decimal
	UIF             decimal.Decimal
	OtherDeductions decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	PaymentStatus   PaymentStatus
	PaymentDate     *time.Time
}
