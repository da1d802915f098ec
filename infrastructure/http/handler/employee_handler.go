package handler

import (
	"net/http"

	"github.com/empdesk/empdesk/application/port/inbound"
	"github.com/empdesk/empdesk/infrastructure/http/response"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

type EmployeeHandler struct {
	employeeUseCase inbound.EmployeeUseCase
	logger          logger.Logger
}

// NewEmployeeHandler serves the /employees routes.
func NewEmployeeHandler(employeeUseCase inbound.EmployeeUseCase, logger logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		employeeUseCase: employeeUseCase,
		logger:          logger,
	}
}

// Create handles POST /employees.
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	employee, err := h.employeeUseCase.CreateEmployee(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Employee created", employee)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	employees, err := h.employeeUseCase.ListEmployees(r.Context(), inbound.ListEmployeesRequest{Skip: skip, Limit: limit})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", employees)
}

// Get handles GET /employees/{empid}. Only HR and admin may read other
// employees.
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	id, err := pathID(r, "empid")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	employee, err := h.employeeUseCase.GetEmployee(r.Context(), caller, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", employee)
}

// Update handles PUT /employees/{empid}.
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "empid")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req inbound.UpdateEmployeeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	employee, err := h.employeeUseCase.UpdateEmployee(r.Context(), id, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Employee updated", employee)
}

// Deactivate handles DELETE /employees/{empid}.
func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "empid")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.employeeUseCase.DeactivateEmployee(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Employee deactivated", nil)
}
