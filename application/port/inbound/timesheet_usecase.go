package inbound

import (
	"context"
	"time"

	"github.com/empdesk/empdesk/domain/entity"
	"github.com/empdesk/empdesk/domain/valueobject"
)

type CreateTimesheetRequest struct {
	EntryDate       string  `json:"entry_date"`
	HoursWorked     float64 `json:"hours_worked"`
	TaskDescription string  `json:"task_description"`
	ProjectCode     string  `json:"project_code,omitempty"`
}

type ListTimesheetsRequest struct {
	StartDate   *time.Time
	EndDate     *time.Time
	ProjectCode string
	Skip        int
	Limit       int
}

type TimesheetUseCase interface {
	SubmitTimesheet(ctx context.Context, caller valueobject.Identity, req CreateTimesheetRequest) (*entity.Timesheet, error)
	ListTimesheets(ctx context.Context, caller valueobject.Identity, req ListTimesheetsRequest) ([]*entity.Timesheet, error)
	Summary(ctx context.Context, caller valueobject.Identity, start, end time.Time) (*entity.TimesheetSummary, error)
}
