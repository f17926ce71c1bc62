package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "active"
	StatusTerminated EmploymentStatus = "terminated"
)

// Employee is the roster record consumed from the surrounding suite. The
// engine only reads the fields payroll and leave initialization need.
type Employee struct {
	ID              string
	FullName        string
	Department      string
	Status          EmploymentStatus
	HireDate        time.Time
	BaseSalary      decimal.Decimal
	Allowances      decimal.Decimal
	OtherDeductions decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
