package inbound

import (
	"context"

	"github.com/empdesk/empdesk/domain/entity"
	"github.com/empdesk/empdesk/domain/valueobject"
)

type CreateEmployeeRequest struct {
	FirstName       string `json:"firstname"`
	LastName        string `json:"lastname"`
	Mail            string `json:"mail"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	LeavesAvailable int    `json:"leaves_available"`
}

// UpdateEmployeeRequest only touches fields that are set.
type UpdateEmployeeRequest struct {
	FirstName       *string `json:"firstname,omitempty"`
	LastName        *string `json:"lastname,omitempty"`
	Mail            *string `json:"mail,omitempty"`
	Username        *string `json:"username,omitempty"`
	Password        *string `json:"password,omitempty"`
	Role            *string `json:"role,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
	LeavesAvailable *int    `json:"leaves_available,omitempty"`
}

type ListEmployeesRequest struct {
	Skip  int
	Limit int
}

type EmployeeUseCase interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*entity.Employee, error)
	GetEmployee(ctx context.Context, caller valueobject.Identity, id int64) (*entity.Employee, error)
	ListEmployees(ctx context.Context, req ListEmployeesRequest) ([]*entity.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, req UpdateEmployeeRequest) (*entity.Employee, error)
	DeactivateEmployee(ctx context.Context, id int64) error
}
