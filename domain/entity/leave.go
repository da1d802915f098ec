package entity

import (
	"errors"
	"time"
)

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

var (
	ErrLeaveNotPending     = errors.New("only pending leave requests can be changed")
	ErrInvalidLeavePeriod  = errors.New("end date must not be before start date")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrLeaveTypeRequired   = errors.New("leave type is required")
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

type Leave struct {
	ID         int64       `json:"leave_id"`
	EmployeeID int64       `json:"empid"`
	StartDate  time.Time   `json:"start_date"`
	EndDate    time.Time   `json:"end_date"`
	LeaveType  string      `json:"leave_type"`
	Reason     string      `json:"reason,omitempty"`
	Status     LeaveStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewLeave returns a pending leave. end must not be before start.
func NewLeave(employeeID int64, start, end time.Time, leaveType, reason string) (*Leave, error) {
	if leaveType == "" {
		return nil, ErrLeaveTypeRequired
	}
	if end.Before(start) {
		return nil, ErrInvalidLeavePeriod
	}
	return &Leave{
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		LeaveType:  leaveType,
		Reason:     reason,
		Status:     LeaveStatusPending,
		CreatedAt:  time.Now(),
	}, nil
}

// Days is the inclusive length of the leave in calendar days.
func (l *Leave) Days() int {
	return int(truncateDay(l.EndDate).Sub(truncateDay(l.StartDate)).Hours()/24) + 1
}

// Approve moves a pending leave to approved and deducts its length from the
// employee's balance.
func (l *Leave) Approve(employee *Employee) error {
	if l.Status != LeaveStatusPending {
		return ErrLeaveNotPending
	}
	days := l.Days()
	if employee.LeavesAvailable < days {
		return ErrInsufficientBalance
	}
	employee.LeavesAvailable -= days
	employee.UpdatedAt = time.Now()
	l.Status = LeaveStatusApproved
	return nil
}

// Reject fails unless the leave is still pending.
func (l *Leave) Reject() error {
	if l.Status != LeaveStatusPending {
		return ErrLeaveNotPending
	}
	l.Status = LeaveStatusRejected
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
