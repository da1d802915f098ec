package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
)

const timesheetColumns = `timesheet_id, empid, entry_date, hours_worked, task_description, project_code, submitted_at`

type timesheetRepository struct {
	db *sql.DB
}

// NewTimesheetRepository returns a Postgres backed TimesheetRepository.
func NewTimesheetRepository(db *sql.DB) outbound.TimesheetRepository {
	return &timesheetRepository{db: db}
}

func (r *timesheetRepository) Create(ctx context.Context, timesheet *entity.Timesheet) error {
	query := `
		INSERT INTO timesheets (empid, entry_date, hours_worked, task_description, project_code, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING timesheet_id
	`

	err := r.db.QueryRowContext(ctx, query,
		timesheet.EmployeeID,
		timesheet.EntryDate,
		timesheet.HoursWorked,
		timesheet.TaskDescription,
		timesheet.ProjectCode,
		timesheet.SubmittedAt,
	).Scan(&timesheet.ID)
	if err != nil {
		return fmt.Errorf("failed to create timesheet: %w", err)
	}
	return nil
}

func (r *timesheetRepository) FindAll(ctx context.Context, offset, limit int, filters outbound.TimesheetFilters) ([]*entity.Timesheet, error) {
	where := timesheetWhere(filters)
	query := fmt.Sprintf(`
		SELECT %s
		FROM timesheets
		%s
		ORDER BY entry_date DESC, timesheet_id DESC
		%s
	`, timesheetColumns, where.clause(), where.page(limit, offset))

	return r.query(ctx, query, where.args...)
}

// FindInRange returns every entry between the filter dates, both inclusive.
func (r *timesheetRepository) FindInRange(ctx context.Context, filters outbound.TimesheetFilters) ([]*entity.Timesheet, error) {
	where := timesheetWhere(filters)
	query := fmt.Sprintf(`
		SELECT %s
		FROM timesheets
		%s
		ORDER BY entry_date
	`, timesheetColumns, where.clause())

	return r.query(ctx, query, where.args...)
}

func (r *timesheetRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.Timesheet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheets: %w", err)
	}
	defer rows.Close()

	var timesheets []*entity.Timesheet
	for rows.Next() {
		var t entity.Timesheet
		err := rows.Scan(
			&t.ID,
			&t.EmployeeID,
			&t.EntryDate,
			&t.HoursWorked,
			&t.TaskDescription,
			&t.ProjectCode,
			&t.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		timesheets = append(timesheets, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate timesheets: %w", err)
	}
	return timesheets, nil
}

func timesheetWhere(filters outbound.TimesheetFilters) *whereBuilder {
	where := &whereBuilder{}
	if filters.EmployeeID != nil {
		where.add("empid = $%d", *filters.EmployeeID)
	}
	if filters.StartDate != nil {
		where.add("entry_date >= $%d", *filters.StartDate)
	}
	if filters.EndDate != nil {
		where.add("entry_date <= $%d", *filters.EndDate)
	}
	if filters.ProjectCode != "" {
		where.add("project_code = $%d", filters.ProjectCode)
	}
	return where
}
