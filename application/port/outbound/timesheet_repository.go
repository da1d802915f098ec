package outbound

import (
	"context"
	"time"

	"github.com/empdesk/empdesk/domain/entity"
)

type TimesheetFilters struct {
	EmployeeID  *int64
	StartDate   *time.Time
	EndDate     *time.Time
	ProjectCode string
}

type TimesheetRepository interface {
	Create(ctx context.Context, timesheet *entity.Timesheet) error
	// FindAll returns entries newest first.
	FindAll(ctx context.Context, offset, limit int, filters TimesheetFilters) ([]*entity.Timesheet, error)
	FindInRange(ctx context.Context, filters TimesheetFilters) ([]*entity.Timesheet, error)
}
