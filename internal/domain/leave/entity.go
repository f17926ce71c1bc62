package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the closed set of leave types. Stored as leave_type_enum in DB.
type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypeUnpaid    Type = "unpaid"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
	TypeStudy     Type = "study"
)

// AllTypes in initialization order.
var AllTypes = []Type{TypeAnnual, TypeSick, TypeUnpaid, TypeMaternity, TypePaternity, TypeStudy}

func (t Type) Valid() bool {
	switch t {
	case TypeAnnual, TypeSick, TypeUnpaid, TypeMaternity, TypePaternity, TypeStudy:
		return true
	}
	return false
}

// Uncapped reports whether consumption of this type skips the balance ceiling.
// Unpaid leave is recorded for reporting but never runs out.
func (t Type) Uncapped() bool {
	return t == TypeUnpaid
}

// Balance - per-employee, per-type, per-year accrual record.
// Unique per (employee_id, leave_type, year); never deleted, only superseded
// by the next year's record.
type Balance struct {
	ID         string
	EmployeeID string
	LeaveType  Type
	Year       int
	TotalDays  decimal.Decimal
	UsedDays   decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Joined fields (for responses)
	EmployeeName *string
}

// RemainingDays derives total - used, floored at zero for uncapped types so
// recorded unpaid usage never reads as a negative entitlement.
func (b Balance) RemainingDays() decimal.Decimal {
	remaining := b.TotalDays.Sub(b.UsedDays)
	if b.LeaveType.Uncapped() && remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// CycleWindow is the derived rolling sick-leave entitlement window. Not
// persisted; recomputed from Balance history on read.
type CycleWindow struct {
	EmployeeID     string
	CycleStartYear int
	CycleEndYear   int
	TotalAllowance decimal.Decimal
	UsedInCycle    decimal.Decimal
}

// RemainingInCycle floors at zero.
func (w CycleWindow) RemainingInCycle() decimal.Decimal {
	remaining := w.TotalAllowance.Sub(w.UsedInCycle)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected || s == RequestStatusCancelled
}

// Request entity. Balance is reserved only on approval; pending requests are
// advisory and may together exceed the balance until one is approved.
type Request struct {
	ID           string
	EmployeeID   string
	LeaveType    Type
	StartDate    time.Time
	EndDate      time.Time
	NumberOfDays decimal.Decimal
	Status       RequestStatus
	Reason       string

	ApproverID      *string
	RejectionReason *string
	DecidedAt       *time.Time

	SubmittedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields (for responses)
	EmployeeName *string
}
