package handler

import (
	"net/http"

	"github.com/empdesk/empdesk/application/port/inbound"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/infrastructure/http/response"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

type TimesheetHandler struct {
	timesheetUseCase inbound.TimesheetUseCase
	logger           logger.Logger
}

func NewTimesheetHandler(timesheetUseCase inbound.TimesheetUseCase, logger logger.Logger) *TimesheetHandler {
	return &TimesheetHandler{
		timesheetUseCase: timesheetUseCase,
		logger:           logger,
	}
}

// Create handles POST /timesheets for the caller.
func (h *TimesheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req inbound.CreateTimesheetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	timesheet, err := h.timesheetUseCase.SubmitTimesheet(r.Context(), caller, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Timesheet submitted", timesheet)
}

// List handles GET /timesheets.
func (h *TimesheetHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	req := inbound.ListTimesheetsRequest{ProjectCode: r.URL.Query().Get("project_code")}
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

	timesheets, err := h.timesheetUseCase.ListTimesheets(r.Context(), caller, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", timesheets)
}

// Summary requires both ends of the range.
func (h *TimesheetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	start, err := queryDate(r, "start_date")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if start == nil || end == nil {
		writeError(w, r, h.logger, domainerr.ErrInvalidRequest.WithDetail("start_date and end_date are required"))
		return
	}

	summary, err := h.timesheetUseCase.Summary(r.Context(), caller, *start, *end)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", summary)
}
