package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

const employeeColumns = `empid, firstname, lastname, mail, username, password_hash,
	is_active, leaves_available, role, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

type employeeRepository struct {
	db *sql.DB
}

// NewEmployeeRepository returns a Postgres backed EmployeeRepository.
func NewEmployeeRepository(db *sql.DB) outbound.EmployeeRepository {
	return &employeeRepository{db: db}
}

func scanEmployee(row rowScanner) (*entity.Employee, error) {
	var e entity.Employee
	err := row.Scan(
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&e.Mail,
		&e.Username,
		&e.PasswordHash,
		&e.IsActive,
		&e.LeavesAvailable,
		&e.Role,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *employeeRepository) findOne(ctx context.Context, where string, arg interface{}) (*entity.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM employees WHERE %s`, employeeColumns, where)

	employee, err := scanEmployee(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return employee, nil
}

func (r *employeeRepository) FindByID(ctx context.Context, id int64) (*entity.Employee, error) {
	return r.findOne(ctx, "empid = $1", id)
}

// FindByUsername also returns inactive employees; callers decide what an
// inactive account may do.
func (r *employeeRepository) FindByUsername(ctx context.Context, username string) (*entity.Employee, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *employeeRepository) FindByMail(ctx context.Context, mail string) (*entity.Employee, error) {
	return r.findOne(ctx, "mail = $1", mail)
}

// Create inserts employee and sets its ID. A unique violation maps to
// outbound.ErrEmployeeAlreadyExists.
func (r *employeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	query := `
		INSERT INTO employees (firstname, lastname, mail, username, password_hash,
			is_active, leaves_available, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING empid
	`

	err := r.db.QueryRowContext(ctx, query,
		employee.FirstName,
		employee.LastName,
		employee.Mail,
		employee.Username,
		employee.PasswordHash,
		employee.IsActive,
		employee.LeavesAvailable,
		employee.Role,
		employee.CreatedAt,
		employee.UpdatedAt,
	).Scan(&employee.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return outbound.ErrEmployeeAlreadyExists
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}

	return nil
}

func (r *employeeRepository) Update(ctx context.Context, employee *entity.Employee) error {
	if employee == nil {
		return fmt.Errorf("employee cannot be nil")
	}

	employee.UpdatedAt = time.Now()
	query := `
		UPDATE employees
		SET firstname = $2, lastname = $3, mail = $4, username = $5, password_hash = $6,
			is_active = $7, leaves_available = $8, role = $9, updated_at = $10
		WHERE empid = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		employee.ID,
		employee.FirstName,
		employee.LastName,
		employee.Mail,
		employee.Username,
		employee.PasswordHash,
		employee.IsActive,
		employee.LeavesAvailable,
		employee.Role,
		employee.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return outbound.ErrEmployeeAlreadyExists
		}
		return fmt.Errorf("failed to update employee: %w", err)
	}

	return requireOneRow(result, outbound.ErrEmployeeNotFound)
}

func (r *employeeRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `
		UPDATE employees
		SET password_hash = $2, updated_at = CURRENT_TIMESTAMP
		WHERE empid = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireOneRow(result, outbound.ErrEmployeeNotFound)
}

// SoftDelete clears is_active. Deactivating an inactive employee succeeds.
func (r *employeeRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE employees
		SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
		WHERE empid = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to soft delete employee: %w", err)
	}
	return requireOneRow(result, outbound.ErrEmployeeNotFound)
}

// FindAll pages through employees ordered by ID.
func (r *employeeRepository) FindAll(ctx context.Context, offset, limit int) ([]*entity.Employee, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees
		ORDER BY empid
		LIMIT $1 OFFSET $2
	`, employeeColumns)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []*entity.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

func (r *employeeRepository) ExistsByUsernameOrMail(ctx context.Context, username, mail string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM employees
			WHERE username = $1 OR mail = $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username, mail).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check if employee exists: %w", err)
	}

	return exists, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func requireOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
