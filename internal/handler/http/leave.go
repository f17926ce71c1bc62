package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hrcore/hr-engine-go/internal/domain/leave"
	"github.com/hrcore/hr-engine-go/internal/handler/http/response"
)

type LeaveHandler interface {
	InitializeBalances(w http.ResponseWriter, r *http.Request)
	InitializeYear(w http.ResponseWriter, r *http.Request)
	GetBalances(w http.ResponseWriter, r *http.Request)
	SickCycleReport(w http.ResponseWriter, r *http.Request)

	SubmitRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	balanceStore  leave.BalanceStore
	cycleTracker  leave.CycleTracker
	requestLedger leave.RequestLedger
}

func NewLeaveHandler(balanceStore leave.BalanceStore, cycleTracker leave.CycleTracker, requestLedger leave.RequestLedger) LeaveHandler {
	return &LeaveHandlerImpl{
		balanceStore:  balanceStore,
		cycleTracker:  cycleTracker,
		requestLedger: requestLedger,
	}
}

// InitializeBalances implements LeaveHandler.
func (h *LeaveHandlerImpl) InitializeBalances(w http.ResponseWriter, r *http.Request) {
	var req leave.InitializeBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("InitializeBalances decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	balances, err := h.balanceStore.Initialize(r.Context(), act, req.EmployeeID, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]leave.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, leave.NewBalanceResponse(b))
	}
	response.Created(w, "Leave balances initialized successfully", responses)
}

// InitializeYear implements LeaveHandler.
func (h *LeaveHandlerImpl) InitializeYear(w http.ResponseWriter, r *http.Request) {
	var req leave.InitializeYearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("InitializeYear decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	summary, err := h.balanceStore.InitializeYear(r.Context(), act, req.Year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Year initialization completed", summary)
}

// GetBalances implements LeaveHandler.
func (h *LeaveHandlerImpl) GetBalances(w http.ResponseWriter, r *http.Request) {
	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	// Employees see their own balances; HR may query anyone's.
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		employeeID = act.EmployeeID
	}
	if employeeID != act.EmployeeID && !act.CanApprove() {
		response.Forbidden(w, "HR access required")
		return
	}

	year := time.Now().Year()
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		parsed, err := strconv.Atoi(yearParam)
		if err != nil {
			response.BadRequest(w, "Invalid year", nil)
			return
		}
		year = parsed
	}

	balances, err := h.balanceStore.BalancesFor(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// SickCycleReport implements LeaveHandler.
func (h *LeaveHandlerImpl) SickCycleReport(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if yearParam := r.URL.Query().Get("year"); yearParam != "" {
		parsed, err := strconv.Atoi(yearParam)
		if err != nil {
			response.BadRequest(w, "Invalid year", nil)
			return
		}
		year = parsed
	}

	report, err := h.cycleTracker.CycleReport(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

// SubmitRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req leave.SubmitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = act.EmployeeID

	created, err := h.requestLedger.Submit(r.Context(), act, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// ListRequests implements LeaveHandler.
func (h *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var filter leave.RequestFilter
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := leave.RequestStatus(statusParam)
		filter.Status = &status
	}

	// Non-HR callers only see their own requests.
	if !act.CanApprove() {
		filter.EmployeeID = &act.EmployeeID
	}

	requests, err := h.requestLedger.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// ApproveRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	approved, err := h.requestLedger.Approve(r.Context(), act, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", approved)
}

// RejectRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	var req leave.RejectRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.RequestID = requestID

	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	rejected, err := h.requestLedger.Reject(r.Context(), act, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", rejected)
}

// CancelRequest implements LeaveHandler.
func (h *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		response.BadRequest(w, "Request ID is required", nil)
		return
	}

	act, ok := actorFromRequest(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	cancelled, err := h.requestLedger.Cancel(r.Context(), act, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request cancelled successfully", cancelled)
}
