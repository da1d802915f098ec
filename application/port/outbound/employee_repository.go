package outbound

import (
	"context"
	"errors"

	"github.com/empdesk/empdesk/domain/entity"
)

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeAlreadyExists = errors.New("employee already exists")
)

type EmployeeRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.Employee, error)
	FindByUsername(ctx context.Context, username string) (*entity.Employee, error)
	FindByMail(ctx context.Context, mail string) (*entity.Employee, error)
	Create(ctx context.Context, employee *entity.Employee) error
	Update(ctx context.Context, employee *entity.Employee) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SoftDelete(ctx context.Context, id int64) error
	FindAll(ctx context.Context, offset, limit int) ([]*entity.Employee, error)
	ExistsByUsernameOrMail(ctx context.Context, username, mail string) (bool, error)
}
