package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/empdesk/empdesk/application/port/inbound"
	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/domain/valueobject"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// SessionRevoker drops every session an employee holds.
type SessionRevoker interface {
	RevokeEmployee(ctx context.Context, employeeID int64) int
}

type EmployeeUseCase struct {
	employeeRepository outbound.EmployeeRepository
	passwordService    outbound.PasswordService
	sessions           SessionRevoker
	logger             logger.Logger
}

// NewEmployeeUseCase builds the employee administration use case. sessions
// is told whenever a change invalidates an employee's tokens.
func NewEmployeeUseCase(
	employeeRepo outbound.EmployeeRepository,
	passwordService outbound.PasswordService,
	sessions SessionRevoker,
	logger logger.Logger,
) *EmployeeUseCase {
	return &EmployeeUseCase{
		employeeRepository: employeeRepo,
		passwordService:    passwordService,
		sessions:           sessions,
		logger:             logger,
	}
}

// CreateEmployee validates req and stores a new active employee.
func (uc *EmployeeUseCase) CreateEmployee(ctx context.Context, req inbound.CreateEmployeeRequest) (*entity.Employee, error) {
	if err := validateCreateEmployee(&req); err != nil {
		return nil, err
	}

	exists, err := uc.employeeRepository.ExistsByUsernameOrMail(ctx, req.Username, req.Mail)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee existence: %w", err)
	}
	if exists {
		return nil, domainerr.ErrConflict.WithDetail("Username or mail already registered")
	}

	hash, err := uc.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee := entity.NewEmployee(req.FirstName, req.LastName, req.Mail, req.Username, hash, req.Role, req.LeavesAvailable)
	if err := uc.employeeRepository.Create(ctx, employee); err != nil {
		if errors.Is(err, outbound.ErrEmployeeAlreadyExists) {
			return nil, domainerr.ErrConflict.WithDetail("Username or mail already registered")
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	uc.logger.Info(ctx, "Employee created", map[string]interface{}{
		"empid":    employee.ID,
		"username": employee.Username,
		"role":     employee.Role,
	})
	return employee, nil
}

// GetEmployee lets employees read their own record; hr and admin may read
// anyone's.
func (uc *EmployeeUseCase) GetEmployee(ctx context.Context, caller valueobject.Identity, id int64) (*entity.Employee, error) {
	if caller.EmployeeID != id && caller.Role != entity.RoleHR && caller.Role != entity.RoleAdmin {
		return nil, domainerr.ErrForbidden
	}
	return uc.find(ctx, id)
}

// ListEmployees pages with a default of 100 and a cap of 500.
func (uc *EmployeeUseCase) ListEmployees(ctx context.Context, req inbound.ListEmployeesRequest) ([]*entity.Employee, error) {
	skip, limit := pageBounds(req.Skip, req.Limit, defaultListLimit)
	employees, err := uc.employeeRepository.FindAll(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// UpdateEmployee applies the fields that are set in req.
func (uc *EmployeeUseCase) UpdateEmployee(ctx context.Context, id int64, req inbound.UpdateEmployeeRequest) (*entity.Employee, error) {
	employee, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		employee.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		employee.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Mail != nil {
		mail, err := valueobject.NewEmail(*req.Mail)
		if err != nil {
			return nil, domainerr.ErrInvalidRequest.WithDetail("Invalid mail address")
		}
		employee.Mail = mail
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, domainerr.ErrInvalidRequest.WithDetail("Username must not be empty")
		}
		employee.Username = username
	}
	if req.Role != nil {
		if !entity.IsValidRole(*req.Role) {
			return nil, domainerr.ErrInvalidRequest.WithDetail("Unknown role")
		}
		employee.Role = *req.Role
	}
	if req.LeavesAvailable != nil {
		if *req.LeavesAvailable < 0 {
			return nil, domainerr.ErrInvalidRequest.WithDetail("Leave balance must not be negative")
		}
		employee.LeavesAvailable = *req.LeavesAvailable
	}
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}
	if req.Password != nil {
		if err := validatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := uc.passwordService.HashPassword(*req.Password)
		if err != nil {
			return nil, domainerr.ErrInvalidRequest.WithDetail("Invalid password").Wrap(err)
		}
		employee.PasswordHash = hash
	}

	if err := uc.employeeRepository.Update(ctx, employee); err != nil {
		if errors.Is(err, outbound.ErrEmployeeAlreadyExists) {
			return nil, domainerr.ErrConflict.WithDetail("Username or mail already registered")
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	// Tokens carry the role and the username, so a change to either or a
	// deactivation invalidates the sessions minted before it.
	if req.Role != nil || req.Username != nil || req.Password != nil || (req.IsActive != nil && !*req.IsActive) {
		uc.sessions.RevokeEmployee(ctx, employee.ID)
	}

	return employee, nil
}

// DeactivateEmployee is a soft delete. The employee's sessions end with it.
func (uc *EmployeeUseCase) DeactivateEmployee(ctx context.Context, id int64) error {
	if err := uc.employeeRepository.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, outbound.ErrEmployeeNotFound) {
			return domainerr.ErrNotFound.WithDetail("Employee not found")
		}
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}
	uc.sessions.RevokeEmployee(ctx, id)

	uc.logger.Info(ctx, "Employee deactivated", map[string]interface{}{"empid": id})
	return nil
}

func (uc *EmployeeUseCase) find(ctx context.Context, id int64) (*entity.Employee, error) {
	employee, err := uc.employeeRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrEmployeeNotFound) {
			return nil, domainerr.ErrNotFound.WithDetail("Employee not found")
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return employee, nil
}

func validateCreateEmployee(req *inbound.CreateEmployeeRequest) error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)

	if req.FirstName == "" || req.LastName == "" {
		return domainerr.ErrInvalidRequest.WithDetail("First and last name are required")
	}
	if req.Username == "" {
		return domainerr.ErrInvalidRequest.WithDetail("Username is required")
	}
	mail, err := valueobject.NewEmail(req.Mail)
	if err != nil {
		return domainerr.ErrInvalidRequest.WithDetail("Invalid mail address")
	}
	req.Mail = mail
	if req.Password == "" {
		return domainerr.ErrInvalidRequest.WithDetail("Password is required")
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}
	if req.Role == "" {
		req.Role = entity.RoleEmployee
	}
	if !entity.IsValidRole(req.Role) {
		return domainerr.ErrInvalidRequest.WithDetail("Unknown role")
	}
	if req.LeavesAvailable < 0 {
		return domainerr.ErrInvalidRequest.WithDetail("Leave balance must not be negative")
	}
	return nil
}

// pageBounds clamps skip/limit to sane values.
func pageBounds(skip, limit, def int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return skip, limit
}

var _ inbound.EmployeeUseCase = (*EmployeeUseCase)(nil)

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return domainerr.ErrInvalidRequest.WithDetail(fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	return nil
}
