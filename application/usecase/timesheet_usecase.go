package usecase

import (
	"context"
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

const defaultTimesheetLimit = 9

type TimesheetUseCase struct {
	timesheetRepository outbound.TimesheetRepository
	logger              logger.Logger
}

// NewTimesheetUseCase builds the timesheet use case.
func NewTimesheetUseCase(timesheetRepo outbound.TimesheetRepository, logger logger.Logger) *TimesheetUseCase {
	return &TimesheetUseCase{
		timesheetRepository: timesheetRepo,
		logger:              logger,
	}
}

// SubmitTimesheet records an entry for the caller. Callers cannot submit for
// someone else.
func (uc *TimesheetUseCase) SubmitTimesheet(ctx context.Context, caller valueobject.Identity, req inbound.CreateTimesheetRequest) (*entity.Timesheet, error) {
	entryDate, err := parseDate(req.EntryDate)
	if err != nil {
		return nil, domainerr.ErrInvalidRequest.WithDetail("entry_date must be YYYY-MM-DD")
	}

	timesheet, err := entity.NewTimesheet(
		caller.EmployeeID,
		entryDate,
		req.HoursWorked,
		strings.TrimSpace(req.TaskDescription),
		strings.TrimSpace(req.ProjectCode),
	)
	if err != nil {
		return nil, domainerr.ErrInvalidRequest.WithDetail(err.Error())
	}

	if err := uc.timesheetRepository.Create(ctx, timesheet); err != nil {
		return nil, fmt.Errorf("failed to create timesheet: %w", err)
	}

	uc.logger.Debug(ctx, "Timesheet submitted", map[string]interface{}{
		"empid":        caller.EmployeeID,
		"timesheet_id": timesheet.ID,
	})
	return timesheet, nil
}

// ListTimesheets is newest first. Managers, hr and admin see every
// employee's entries.
func (uc *TimesheetUseCase) ListTimesheets(ctx context.Context, caller valueobject.Identity, req inbound.ListTimesheetsRequest) ([]*entity.Timesheet, error) {
	filters := outbound.TimesheetFilters{
		EmployeeID:  uc.scope(caller),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ProjectCode: strings.TrimSpace(req.ProjectCode),
	}

	skip, limit := pageBounds(req.Skip, req.Limit, defaultTimesheetLimit)
	timesheets, err := uc.timesheetRepository.FindAll(ctx, skip, limit, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list timesheets: %w", err)
	}
	return timesheets, nil
}

// Summary totals the caller's hours between start and end, both inclusive.
func (uc *TimesheetUseCase) Summary(ctx context.Context, caller valueobject.Identity, start, end time.Time) (*entity.TimesheetSummary, error) {
	if end.Before(start) {
		return nil, domainerr.ErrInvalidRequest.WithDetail("end_date must not be before start_date")
	}

	entries, err := uc.timesheetRepository.FindInRange(ctx, outbound.TimesheetFilters{
		EmployeeID: uc.scope(caller),
		StartDate:  &start,
		EndDate:    &end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load timesheets: %w", err)
	}
	return entity.Summarize(start, end, entries), nil
}

func (uc *TimesheetUseCase) scope(caller valueobject.Identity) *int64 {
	if entity.CanViewAllTimesheets(caller.Role) {
		return nil
	}
	id := caller.EmployeeID
	return &id
}

var _ inbound.TimesheetUseCase = (*TimesheetUseCase)(nil)
