package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/empdesk/empdesk/domain/entity"
)

var ErrLeaveNotFound = errors.New("leave not found")

type LeaveFilters struct {
	EmployeeID *int64
	Status     string
	StartDate  *time.Time
	EndDate    *time.Time
}

type LeaveRepository interface {
	Create(ctx context.Context, leave *entity.Leave) error
	FindByID(ctx context.Context, id int64) (*entity.Leave, error)
	FindAll(ctx context.Context, offset, limit int, filters LeaveFilters) ([]*entity.Leave, error)
	// Decide persists the leave's new status together with the employee's
	// balance in one transaction.
	Decide(ctx context.Context, leave *entity.Leave, employee *entity.Employee) error
}
