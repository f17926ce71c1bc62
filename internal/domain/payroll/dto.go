package payroll

import (
	"github.com/hrcore/hr-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type ProcessRunRequest struct {
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	DepartmentScope *string `json:"department_scope,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

func (r *ProcessRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a plausible calendar year"})
	}
	if r.DepartmentScope != nil && validator.IsEmpty(*r.DepartmentScope) {
		errs = append(errs, validator.ValidationError{Field: "department_scope", Message: "must not be blank when provided"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePaymentStatusRequest struct {
	LineItemID       string  `json:"-"`
	Status           string  `json:"status"`
	PaymentDate      *string `json:"payment_date,omitempty"`
	PaymentReference *string `json:"payment_reference,omitempty"`
}

func (r *UpdatePaymentStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != string(PaymentStatusPaid) && r.Status != string(PaymentStatusFailed) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'paid' or 'failed'"})
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LineItemResponse struct {
	ID               string          `json:"id"`
	PayrollRunID     string          `json:"payroll_run_id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	GrossPay         decimal.Decimal `json:"gross_pay"`
	Allowances       decimal.Decimal `json:"allowances"`
	PAYE             decimal.Decimal `json:"paye"`
	UIF              decimal.Decimal `json:"uif"`
	OtherDeductions  decimal.Decimal `json:"other_deductions"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	NetPay           decimal.Decimal `json:"net_pay"`
	PaymentStatus    string          `json:"payment_status"`
	PaymentDate      *string         `json:"payment_date,omitempty"`
	PaymentReference *string         `json:"payment_reference,omitempty"`
}

func NewLineItemResponse(item LineItem) LineItemResponse {
	resp := LineItemResponse{
		ID:               item.ID,
		PayrollRunID:     item.PayrollRunID,
		EmployeeID:       item.EmployeeID,
		EmployeeName:     item.EmployeeName,
		GrossPay:         item.GrossPay,
		Allowances:       item.Allowances,
		PAYE:             item.PAYE,
		UIF:              item.UIF,
		OtherDeductions:  item.OtherDeductions,
		TotalDeductions:  item.TotalDeductions,
		NetPay:           item.NetPay,
		PaymentStatus:    string(item.PaymentStatus),
		PaymentReference: item.PaymentReference,
	}
	if item.PaymentDate != nil {
		d := item.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &d
	}
	return resp
}

type RunResponse struct {
	ID              string             `json:"id"`
	Month           int                `json:"month"`
	Year            int                `json:"year"`
	DepartmentScope *string            `json:"department_scope,omitempty"`
	Status          string             `json:"status"`
	TotalEmployees  int                `json:"total_employees"`
	TotalGrossPay   decimal.Decimal    `json:"total_gross_pay"`
	TotalDeductions decimal.Decimal    `json:"total_deductions"`
	TotalNetPay     decimal.Decimal    `json:"total_net_pay"`
	ProcessedAt     *string            `json:"processed_at,omitempty"`
	ProcessedBy     *string            `json:"processed_by,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	LineItems       []LineItemResponse `json:"line_items,omitempty"`
}

func NewRunResponse(run Run, items []LineItem) RunResponse {
	resp := RunResponse{
		ID:              run.ID,
		Month:           run.Month,
		Year:            run.Year,
		DepartmentScope: run.DepartmentScope,
		Status:          string(run.Status),
		TotalEmployees:  run.TotalEmployees,
		TotalGrossPay:   run.TotalGrossPay,
		TotalDeductions: run.TotalDeductions,
		TotalNetPay:     run.TotalNetPay,
		ProcessedBy:     run.ProcessedBy,
		Notes:           run.Notes,
	}
	if run.ProcessedAt != nil {
		ts := run.ProcessedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ProcessedAt = &ts
	}
	for _, item := range items {
		resp.LineItems = append(resp.LineItems, NewLineItemResponse(item))
	}
	return resp
}

// ========== PAYSLIP DTO ==========

type PayslipResponse struct {
	RunID           string          `json:"run_id"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	ProcessedAt     *string         `json:"processed_at,omitempty"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	Department      string          `json:"department"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	Allowances      decimal.Decimal `json:"allowances"`
	PAYE            decimal.Decimal `json:"paye"`
	UIF             decimal.Decimal `json:"uif"`
	OtherDeductions decimal.Decimal `json:"other_deductions"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentDate     *string         `json:"payment_date,omitempty"`
}

func NewPayslipResponse(view PayslipView) PayslipResponse {
	resp := PayslipResponse{
		RunID:           view.RunID,
		Month:           view.Month,
		Year:            view.Year,
		EmployeeID:      view.EmployeeID,
		EmployeeName:    view.EmployeeName,
		Department:      view.Department,
		GrossPay:        view.GrossPay,
		Allowances:      view.Allowances,
		PAYE:            view.PAYE,
		UIF:             view.UIF,
		OtherDeductions: view.OtherDeductions,
		TotalDeductions: view.TotalDeductions,
		NetPay:          view.NetPay,
		PaymentStatus:   string(view.PaymentStatus),
	}
	if view.ProcessedAt != nil {
		ts := view.ProcessedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.ProcessedAt = &ts
	}
	if view.PaymentDate != nil {
		d := view.PaymentDate.Format("2006-01-02")
		resp.PaymentDate = &d
	}
	return resp
}
