package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hrcore/hr-engine-go/internal/domain/payroll"
	"github.com/hrcore/hr-engine-go/internal/handler/http/response"
)

type PayrollHandler interface {
	ProcessRun(w http.ResponseWriter, r *http.Request)
	ListRuns(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
	UpdatePaymentStatus(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	runProcessor     payroll.RunProcessor
	payslipProjector payroll.PayslipProjector
}

func NewPayrollHandler(runProcessor payroll.RunProcessor, payslipProjector payroll.PayslipProjector) PayrollHandler {
	return &PayrollHandlerImpl{
		runProcessor:     runProcessor,
		payslipProjector: payslipProjector,
	}
}

// ProcessRun implements PayrollHandler.
func (h *PayrollHandlerImpl) ProcessRun(w http.ResponseWriter, r *http.Request) {
	var req payroll.ProcessRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ProcessRun decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	run, err := h.runProcessor.Process(r.Context(), act, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run processed successfully", run)
}

// ListRuns implements PayrollHandler.
func (h *PayrollHandlerImpl) ListRuns(w http.ResponseWriter, r *http.Request) {
	var filter payroll.RunFilter
	if monthParam := r.URL.Query().Get("month"); monthParam != "" {
		month, err := strconv.Atoi(monthParam)
		if err != nil {
			response.BadRequest(w, "Invalid month", nil)
			return
		}
		filter.Month = &month
	}
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		year, err := strconv.Atoi(yearParam)
		if err != nil {
			response.BadRequest(w, "Invalid year", nil)
			return
		}
		filter.Year = &year
	}
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := payroll.RunStatus(statusParam)
		filter.Status = &status
	}

	runs, err := h.runProcessor.ListRuns(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, runs)
}

// GetRun implements PayrollHandler.
func (h *PayrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	run, err := h.runProcessor.GetRun(r.Context(), runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, run)
}

// UpdatePaymentStatus implements PayrollHandler.
func (h *PayrollHandlerImpl) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	lineItemID := chi.URLParam(r, "id")
	if lineItemID == "" {
		response.BadRequest(w, "Line item ID is required", nil)
		return
	}

	var req payroll.UpdatePaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdatePaymentStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.LineItemID = lineItemID

	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	item, err := h.runProcessor.UpdatePaymentStatus(r.Context(), act, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payment status updated successfully", item)
}

// GetPayslip implements PayrollHandler.
func (h *PayrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	employeeID := chi.URLParam(r, "employeeID")
	if runID == "" || employeeID == "" {
		response.BadRequest(w, "Run ID and employee ID are required", nil)
		return
	}

	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	// Employees only see their own payslip; HR sees all.
	if employeeID != act.EmployeeID && !act.CanApprove() {
		response.Forbidden(w, "HR access required")
		return
	}

	payslip, err := h.payslipProjector.Payslip(r.Context(), employeeID, runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payslip)
}
