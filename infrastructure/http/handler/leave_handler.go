package handler

import (
	"net/http"

	"github.com/empdesk/empdesk/application/port/inbound"
	"github.com/empdesk/empdesk/infrastructure/http/response"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

type LeaveHandler struct {
	leaveUseCase inbound.LeaveUseCase
	logger       logger.Logger
}

// NewLeaveHandler serves the /leaves routes.
func NewLeaveHandler(leaveUseCase inbound.LeaveUseCase, logger logger.Logger) *LeaveHandler {
	return &LeaveHandler{
		leaveUseCase: leaveUseCase,
		logger:       logger,
	}
}

// Create handles POST /leaves for the caller.
func (h *LeaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req inbound.CreateLeaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	leave, err := h.leaveUseCase.RequestLeave(r.Context(), caller, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Leave requested", leave)
}

func (h *LeaveHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	req := inbound.ListLeavesRequest{Status: r.URL.Query().Get("status")}
	if req.StartDate, err = queryDate(r, "start_date"); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.EndDate, err = queryDate(r, "end_date"); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Skip, err = queryInt(r, "skip", 0); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if req.Limit, err = queryInt(r, "limit", 0); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	leaves, err := h.leaveUseCase.ListLeaves(r.Context(), caller, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", leaves)
}

// Approve handles PUT /leaves/{leave_id}/approve.
func (h *LeaveHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "leave_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	leave, err := h.leaveUseCase.ApproveLeave(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Leave approved", leave)
}

// Reject handles PUT /leaves/{leave_id}/reject.
func (h *LeaveHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "leave_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	leave, err := h.leaveUseCase.RejectLeave(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Leave rejected", leave)
}
