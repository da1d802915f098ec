package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
)

const leaveColumns = `leave_id, empid, start_date, end_date, leave_type, reason, status, created_at`

type leaveRepository struct {
	db *sql.DB
}

// NewLeaveRepository returns a Postgres backed LeaveRepository.
func NewLeaveRepository(db *sql.DB) outbound.LeaveRepository {
	return &leaveRepository{db: db}
}

func scanLeave(row rowScanner) (*entity.Leave, error) {
	var l entity.Leave
	var status string
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&l.StartDate,
		&l.EndDate,
		&l.LeaveType,
		&l.Reason,
		&status,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = entity.LeaveStatus(status)
	return &l, nil
}

func (r *leaveRepository) Create(ctx context.Context, leave *entity.Leave) error {
	query := `
		INSERT INTO leaves (empid, start_date, end_date, leave_type, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING leave_id
	`

	err := r.db.QueryRowContext(ctx, query,
		leave.EmployeeID,
		leave.StartDate,
		leave.EndDate,
		leave.LeaveType,
		leave.Reason,
		string(leave.Status),
		leave.CreatedAt,
	).Scan(&leave.ID)
	if err != nil {
		return fmt.Errorf("failed to create leave: %w", err)
	}
	return nil
}

func (r *leaveRepository) FindByID(ctx context.Context, id int64) (*entity.Leave, error) {
	query := fmt.Sprintf(`SELECT %s FROM leaves WHERE leave_id = $1`, leaveColumns)

	leave, err := scanLeave(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrLeaveNotFound
		}
		return nil, fmt.Errorf("failed to find leave by ID: %w", err)
	}
	return leave, nil
}

// FindAll applies only the filters that are set.
func (r *leaveRepository) FindAll(ctx context.Context, offset, limit int, filters outbound.LeaveFilters) ([]*entity.Leave, error) {
	where := &whereBuilder{}
	if filters.EmployeeID != nil {
		where.add("empid = $%d", *filters.EmployeeID)
	}
	if filters.Status != "" {
		where.add("status = $%d", filters.Status)
	}
	if filters.StartDate != nil {
		where.add("start_date >= $%d", *filters.StartDate)
	}
	if filters.EndDate != nil {
		where.add("end_date <= $%d", *filters.EndDate)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM leaves
		%s
		ORDER BY start_date DESC, leave_id DESC
		%s
	`, leaveColumns, where.clause(), where.page(limit, offset))

	rows, err := r.db.QueryContext(ctx, query, where.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	var leaves []*entity.Leave
	for rows.Next() {
		leave, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, leave)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaves: %w", err)
	}
	return leaves, nil
}

// Decide writes the leave's new status and, for an approval, deducts the
// days from the employee's balance. Both statements are guarded so two
// concurrent decisions cannot both succeed or overdraw the balance.
func (r *leaveRepository) Decide(ctx context.Context, leave *entity.Leave, employee *entity.Employee) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `
		UPDATE leaves SET status = $2
		WHERE leave_id = $1 AND status = 'pending'
	`, leave.ID, string(leave.Status))
	if err != nil {
		return fmt.Errorf("failed to update leave status: %w", err)
	}
	if err = requireOneRow(result, entity.ErrLeaveNotPending); err != nil {
		return err
	}

	if leave.Status == entity.LeaveStatusApproved {
		err = tx.QueryRowContext(ctx, `
			UPDATE employees
			SET leaves_available = leaves_available - $2, updated_at = CURRENT_TIMESTAMP
			WHERE empid = $1 AND leaves_available >= $2
			RETURNING leaves_available
		`, employee.ID, leave.Days()).Scan(&employee.LeavesAvailable)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				err = entity.ErrInsufficientBalance
				return err
			}
			return fmt.Errorf("failed to deduct leave balance: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit leave decision: %w", err)
	}
	return nil
}
