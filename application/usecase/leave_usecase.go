package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/empdesk/empdesk/application/port/inbound"
	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/domain/valueobject"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

type LeaveUseCase struct {
	leaveRepository    outbound.LeaveRepository
	employeeRepository outbound.EmployeeRepository
	logger             logger.Logger
}

// NewLeaveUseCase builds the leave workflow.
func NewLeaveUseCase(leaveRepo outbound.LeaveRepository, employeeRepo outbound.EmployeeRepository, logger logger.Logger) *LeaveUseCase {
	return &LeaveUseCase{
		leaveRepository:    leaveRepo,
		employeeRepository: employeeRepo,
		logger:             logger,
	}
}

// RequestLeave files a pending leave for the caller. The balance is checked
// here and again on approval, since other requests may be approved first.
func (uc *LeaveUseCase) RequestLeave(ctx context.Context, caller valueobject.Identity, req inbound.CreateLeaveRequest) (*entity.Leave, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, domainerr.ErrInvalidRequest.WithDetail("start_date must be YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, domainerr.ErrInvalidRequest.WithDetail("end_date must be YYYY-MM-DD")
	}

	leave, err := entity.NewLeave(caller.EmployeeID, start, end, strings.TrimSpace(req.LeaveType), strings.TrimSpace(req.Reason))
	if err != nil {
		return nil, domainerr.ErrInvalidRequest.WithDetail(err.Error())
	}

	employee, err := uc.employeeRepository.FindByID(ctx, caller.EmployeeID)
	if err != nil {
		if errors.Is(err, outbound.ErrEmployeeNotFound) {
			return nil, domainerr.ErrNotFound.WithDetail("Employee not found")
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	if employee.LeavesAvailable < leave.Days() {
		return nil, domainerr.ErrBusinessRule.WithDetail(
			fmt.Sprintf("Insufficient leave balance: %d day(s) requested, %d available", leave.Days(), employee.LeavesAvailable))
	}

	if err := uc.leaveRepository.Create(ctx, leave); err != nil {
		return nil, fmt.Errorf("failed to create leave: %w", err)
	}

	uc.logger.Info(ctx, "Leave requested", map[string]interface{}{
		"empid":    caller.EmployeeID,
		"leave_id": leave.ID,
		"days":     leave.Days(),
	})
	return leave, nil
}

// ListLeaves returns every leave to hr and admin, and only their own to
// everyone else.
func (uc *LeaveUseCase) ListLeaves(ctx context.Context, caller valueobject.Identity, req inbound.ListLeavesRequest) ([]*entity.Leave, error) {
	filters := outbound.LeaveFilters{
		Status:    req.Status,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if filters.Status != "" && !validLeaveStatus(filters.Status) {
		return nil, domainerr.ErrInvalidRequest.WithDetail("Unknown leave status")
	}
	if !entity.CanViewAllLeaves(caller.Role) {
		id := caller.EmployeeID
		filters.EmployeeID = &id
	}

	skip, limit := pageBounds(req.Skip, req.Limit, defaultListLimit)
	leaves, err := uc.leaveRepository.FindAll(ctx, skip, limit, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	return leaves, nil
}

// ApproveLeave approves a pending leave and charges the employee's balance.
func (uc *LeaveUseCase) ApproveLeave(ctx context.Context, id int64) (*entity.Leave, error) {
	return uc.decide(ctx, id, func(leave *entity.Leave, employee *entity.Employee) error {
		return leave.Approve(employee)
	})
}

// RejectLeave moves a pending leave to rejected.
func (uc *LeaveUseCase) RejectLeave(ctx context.Context, id int64) (*entity.Leave, error) {
	return uc.decide(ctx, id, func(leave *entity.Leave, _ *entity.Employee) error {
		return leave.Reject()
	})
}

func (uc *LeaveUseCase) decide(ctx context.Context, id int64, apply func(*entity.Leave, *entity.Employee) error) (*entity.Leave, error) {
	leave, err := uc.leaveRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrLeaveNotFound) {
			return nil, domainerr.ErrNotFound.WithDetail("Leave request not found")
		}
		return nil, fmt.Errorf("failed to find leave: %w", err)
	}

	employee, err := uc.employeeRepository.FindByID(ctx, leave.EmployeeID)
	if err != nil {
		if errors.Is(err, outbound.ErrEmployeeNotFound) {
			return nil, domainerr.ErrNotFound.WithDetail("Employee not found")
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	if err := apply(leave, employee); err != nil {
		return nil, domainerr.ErrBusinessRule.WithDetail(err.Error())
	}

	if err := uc.leaveRepository.Decide(ctx, leave, employee); err != nil {
		if errors.Is(err, entity.ErrLeaveNotPending) || errors.Is(err, entity.ErrInsufficientBalance) {
			return nil, domainerr.ErrBusinessRule.WithDetail(err.Error())
		}
		return nil, fmt.Errorf("failed to save leave decision: %w", err)
	}

	uc.logger.Info(ctx, "Leave decided", map[string]interface{}{
		"leave_id": leave.ID,
		"empid":    leave.EmployeeID,
		"status":   leave.Status,
	})
	return leave, nil
}

func validLeaveStatus(status string) bool {
	switch entity.LeaveStatus(status) {
	case entity.LeaveStatusPending, entity.LeaveStatusApproved, entity.LeaveStatusRejected:
		return true
	}
	return false
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(entity.DateLayout, strings.TrimSpace(s))
}

var _ inbound.LeaveUseCase = (*LeaveUseCase)(nil)
