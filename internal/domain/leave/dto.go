package leave

import (
	"github.com/hrcore/hr-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== BALANCE DTOs ==========

type InitializeBalanceRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
}

func (r *InitializeBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a plausible calendar year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type InitializeYearRequest struct {
	Year int `json:"year"`
}

func (r *InitializeYearRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a plausible calendar year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// InitializeYearSummary is the tri-count result of a bulk initialization.
// AlreadyInitialized rows count as skipped, transient failures as failed;
// neither aborts the batch.
type InitializeYearSummary struct {
	Year    int `json:"year"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type BalanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	LeaveType     string          `json:"leave_type"`
	Year          int             `json:"year"`
	TotalDays     decimal.Decimal `json:"total_days"`
	UsedDays      decimal.Decimal `json:"used_days"`
	RemainingDays decimal.Decimal `json:"remaining_days"`
}

func NewBalanceResponse(b Balance) BalanceResponse {
	return BalanceResponse{
		ID:            b.ID,
		EmployeeID:    b.EmployeeID,
		EmployeeName:  b.EmployeeName,
		LeaveType:     string(b.LeaveType),
		Year:          b.Year,
		TotalDays:     b.TotalDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays(),
	}
}

// ========== CYCLE DTOs ==========

type CycleWindowResponse struct {
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	CycleStartYear   int             `json:"cycle_start_year"`
	CycleEndYear     int             `json:"cycle_end_year"`
	TotalAllowance   decimal.Decimal `json:"total_allowance"`
	UsedInCycle      decimal.Decimal `json:"used_in_cycle"`
	RemainingInCycle decimal.Decimal `json:"remaining_in_cycle"`
}

type CycleReportResponse struct {
	Year    int                   `json:"year"`
	Windows []CycleWindowResponse `json:"windows"`
}

// ========== REQUEST DTOs ==========

type SubmitRequestRequest struct {
	EmployeeID string `json:"-"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func (r *SubmitRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Type(r.LeaveType).Valid() {
		errs = append(errs, validator.ValidationError{Field: "leave_type", Message: "must be a known leave type"})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	// Balances are accounted per calendar year; a range crossing the boundary
	// would consume from two balance rows. Submit one request per year.
	if startOK && endOK && start.Year() != end.Year() {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in the same calendar year as start_date"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectRequestRequest struct {
	RequestID string `json:"-"`
	Reason    string `json:"reason"`
}

func (r *RejectRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RequestResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	LeaveType       string          `json:"leave_type"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	NumberOfDays    decimal.Decimal `json:"number_of_days"`
	Status          string          `json:"status"`
	Reason          string          `json:"reason"`
	ApproverID      *string         `json:"approver_id,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	SubmittedAt     string          `json:"submitted_at"`
}

func NewRequestResponse(req Request) RequestResponse {
	return RequestResponse{
		ID:              req.ID,
		EmployeeID:      req.EmployeeID,
		EmployeeName:    req.EmployeeName,
		LeaveType:       string(req.LeaveType),
		StartDate:       req.StartDate.Format("2006-01-02"),
		EndDate:         req.EndDate.Format("2006-01-02"),
		NumberOfDays:    req.NumberOfDays,
		Status:          string(req.Status),
		Reason:          req.Reason,
		ApproverID:      req.ApproverID,
		RejectionReason: req.RejectionReason,
		SubmittedAt:     req.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
