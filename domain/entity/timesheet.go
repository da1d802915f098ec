package entity

import (
	"errors"
	"time"
)

var (
	ErrInvalidHours            = errors.New("hours worked must be between 0 and 24")
	ErrTaskDescriptionRequired = errors.New("task description is required")
)

type Timesheet struct {
	ID              int64     `json:"timesheet_id"`
	EmployeeID      int64     `json:"empid"`
	EntryDate       time.Time `json:"entry_date"`
	HoursWorked     float64   `json:"hours_worked"`
	TaskDescription string    `json:"task_description"`
	ProjectCode     string    `json:"project_code,omitempty"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

// NewTimesheet rejects hours outside [0, 24] and an empty task.
func NewTimesheet(employeeID int64, entryDate time.Time, hours float64, task, projectCode string) (*Timesheet, error) {
	if hours < 0 || hours > 24 {
		return nil, ErrInvalidHours
	}
	if task == "" {
		return nil, ErrTaskDescriptionRequired
	}
	return &Timesheet{
		EmployeeID:      employeeID,
		EntryDate:       entryDate,
		HoursWorked:     hours,
		TaskDescription: task,
		ProjectCode:     projectCode,
		SubmittedAt:     time.Now(),
	}, nil
}

// TimesheetSummary aggregates entries over a date range.
type TimesheetSummary struct {
	StartDate      string             `json:"start_date"`
	EndDate        string             `json:"end_date"`
	TotalEntries   int                `json:"total_entries"`
	TotalHours     float64            `json:"total_hours"`
	ProjectSummary map[string]float64 `json:"project_summary"`
}

// Summarize totals hours overall and per project code. entries are expected
// to fall within [start, end] already.
func Summarize(start, end time.Time, entries []*Timesheet) *TimesheetSummary {
	summary := &TimesheetSummary{
		StartDate:      start.Format(DateLayout),
		EndDate:        end.Format(DateLayout),
		TotalEntries:   len(entries),
		ProjectSummary: make(map[string]float64),
	}
	for _, e := range entries {
		summary.TotalHours += e.HoursWorked
		summary.ProjectSummary[e.ProjectCode] += e.HoursWorked
	}
	return summary
}
