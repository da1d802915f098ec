package handler

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/empdesk/empdesk/application/port/inbound"
	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
	"github.com/empdesk/empdesk/domain/valueobject"
)

// memoryEmployees is the minimum EmployeeRepository the auth flow needs.
type memoryEmployees struct {
	mu   sync.Mutex
	byID map[int64]*entity.Employee
}

func newMemoryEmployees(employees ...*entity.Employee) *memoryEmployees {
	m := &memoryEmployees{byID: make(map[int64]*entity.Employee)}
	for i, e := range employees {
		e.ID = int64(i + 1)
		m.byID[e.ID] = e
	}
	return m
}

func (m *memoryEmployees) FindByID(ctx context.Context, id int64) (*entity.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, outbound.ErrEmployeeNotFound
}

func (m *memoryEmployees) FindByUsername(ctx context.Context, username string) (*entity.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.Username == username {
			cp := *e
			return &cp, nil
		}
	}
	return nil, outbound.ErrEmployeeNotFound
}

func (m *memoryEmployees) FindByMail(ctx context.Context, mail string) (*entity.Employee, error) {
	return nil, outbound.ErrEmployeeNotFound
}

func (m *memoryEmployees) Create(ctx context.Context, employee *entity.Employee) error {
	return nil
}

func (m *memoryEmployees) Update(ctx context.Context, employee *entity.Employee) error {
	return nil
}

func (m *memoryEmployees) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

func (m *memoryEmployees) SoftDelete(ctx context.Context, id int64) error {
	return nil
}

func (m *memoryEmployees) FindAll(ctx context.Context, offset, limit int) ([]*entity.Employee, error) {
	return nil, nil
}

func (m *memoryEmployees) ExistsByUsernameOrMail(ctx context.Context, username, mail string) (bool, error) {
	return false, nil
}

type MockEmployeeUseCase struct {
	mock.Mock
}

func (m *MockEmployeeUseCase) CreateEmployee(ctx context.Context, req inbound.CreateEmployeeRequest) (*entity.Employee, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Employee), args.Error(1)
}

func (m *MockEmployeeUseCase) GetEmployee(ctx context.Context, caller valueobject.Identity, id int64) (*entity.Employee, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Employee), args.Error(1)
}

func (m *MockEmployeeUseCase) ListEmployees(ctx context.Context, req inbound.ListEmployeesRequest) ([]*entity.Employee, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Employee), args.Error(1)
}

func (m *MockEmployeeUseCase) UpdateEmployee(ctx context.Context, id int64, req inbound.UpdateEmployeeRequest) (*entity.Employee, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Employee), args.Error(1)
}

func (m *MockEmployeeUseCase) DeactivateEmployee(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockLeaveUseCase struct {
	mock.Mock
}

func (m *MockLeaveUseCase) RequestLeave(ctx context.Context, caller valueobject.Identity, req inbound.CreateLeaveRequest) (*entity.Leave, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Leave), args.Error(1)
}

func (m *MockLeaveUseCase) ListLeaves(ctx context.Context, caller valueobject.Identity, req inbound.ListLeavesRequest) ([]*entity.Leave, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Leave), args.Error(1)
}

func (m *MockLeaveUseCase) ApproveLeave(ctx context.Context, id int64) (*entity.Leave, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Leave), args.Error(1)
}

func (m *MockLeaveUseCase) RejectLeave(ctx context.Context, id int64) (*entity.Leave, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Leave), args.Error(1)
}

type MockTimesheetUseCase struct {
	mock.Mock
}

func (m *MockTimesheetUseCase) SubmitTimesheet(ctx context.Context, caller valueobject.Identity, req inbound.CreateTimesheetRequest) (*entity.Timesheet, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Timesheet), args.Error(1)
}

func (m *MockTimesheetUseCase) ListTimesheets(ctx context.Context, caller valueobject.Identity, req inbound.ListTimesheetsRequest) ([]*entity.Timesheet, error) {
	args := m.Called(ctx, caller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Timesheet), args.Error(1)
}

func (m *MockTimesheetUseCase) Summary(ctx context.Context, caller valueobject.Identity, start, end time.Time) (*entity.TimesheetSummary, error) {
	args := m.Called(ctx, caller, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.TimesheetSummary), args.Error(1)
}

type MockPasswordResetUseCase struct {
	mock.Mock
}

func (m *MockPasswordResetUseCase) RequestReset(ctx context.Context, req inbound.ForgotPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPasswordResetUseCase) VerifyOTP(ctx context.Context, req inbound.VerifyOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPasswordResetUseCase) ResetPassword(ctx context.Context, req inbound.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPasswordResetUseCase) Sweep(now time.Time) int {
	return m.Called(now).Int(0)
}

func (m *MockPasswordResetUseCase) RunSweeper(ctx context.Context, interval time.Duration) error {
	return m.Called(ctx, interval).Error(0)
}
