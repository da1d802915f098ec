package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// mockEmployeeRepository is an in-memory EmployeeRepository.
type mockEmployeeRepository struct {
	mu        sync.Mutex
	employees map[int64]*entity.Employee
	nextID    int64

	// lookupErr, when set, is returned by FindByUsername.
	lookupErr error
	// blockLookup makes FindByUsername wait for its context.
	blockLookup bool
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{
		employees: make(map[int64]*entity.Employee),
		nextID:    1,
	}
}

func (m *mockEmployeeRepository) add(e *entity.Employee) *entity.Employee {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = m.nextID
	m.nextID++
	cp := *e
	m.employees[e.ID] = &cp
	return e
}

func (m *mockEmployeeRepository) FindByID(ctx context.Context, id int64) (*entity.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.employees[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, outbound.ErrEmployeeNotFound
}

func (m *mockEmployeeRepository) FindByUsername(ctx context.Context, username string) (*entity.Employee, error) {
	if m.blockLookup {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.Username == username {
			cp := *e
			return &cp, nil
		}
	}
	return nil, outbound.ErrEmployeeNotFound
}

func (m *mockEmployeeRepository) FindByMail(ctx context.Context, mail string) (*entity.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.Mail == mail {
			cp := *e
			return &cp, nil
		}
	}
	return nil, outbound.ErrEmployeeNotFound
}

func (m *mockEmployeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	exists, _ := m.ExistsByUsernameOrMail(ctx, employee.Username, employee.Mail)
	if exists {
		return outbound.ErrEmployeeAlreadyExists
	}
	m.add(employee)
	return nil
}

func (m *mockEmployeeRepository) Update(ctx context.Context, employee *entity.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[employee.ID]; !ok {
		return outbound.ErrEmployeeNotFound
	}
	cp := *employee
	m.employees[employee.ID] = &cp
	return nil
}

func (m *mockEmployeeRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return outbound.ErrEmployeeNotFound
	}
	e.PasswordHash = passwordHash
	return nil
}

func (m *mockEmployeeRepository) SoftDelete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return outbound.ErrEmployeeNotFound
	}
	e.IsActive = false
	return nil
}

func (m *mockEmployeeRepository) FindAll(ctx context.Context, offset, limit int) ([]*entity.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.employees))
	for id := range m.employees {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*entity.Employee
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		cp := *m.employees[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockEmployeeRepository) ExistsByUsernameOrMail(ctx context.Context, username, mail string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.employees {
		if e.Username == username || e.Mail == mail {
			return true, nil
		}
	}
	return false, nil
}

// recordingRevoker captures RevokeEmployee calls.
type recordingRevoker struct {
	revoked []int64
}

func (r *recordingRevoker) RevokeEmployee(ctx context.Context, employeeID int64) int {
	r.revoked = append(r.revoked, employeeID)
	return 1
}

type MockLeaveRepository struct {
	mock.Mock
}

func (m *MockLeaveRepository) Create(ctx context.Context, leave *entity.Leave) error {
	args := m.Called(ctx, leave)
	if args.Error(0) == nil {
		leave.ID = 7
	}
	return args.Error(0)
}

func (m *MockLeaveRepository) FindByID(ctx context.Context, id int64) (*entity.Leave, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Leave), args.Error(1)
}

func (m *MockLeaveRepository) FindAll(ctx context.Context, offset, limit int, filters outbound.LeaveFilters) ([]*entity.Leave, error) {
	args := m.Called(ctx, offset, limit, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Leave), args.Error(1)
}

func (m *MockLeaveRepository) Decide(ctx context.Context, leave *entity.Leave, employee *entity.Employee) error {
	args := m.Called(ctx, leave, employee)
	return args.Error(0)
}

type MockTimesheetRepository struct {
	mock.Mock
}

func (m *MockTimesheetRepository) Create(ctx context.Context, timesheet *entity.Timesheet) error {
	args := m.Called(ctx, timesheet)
	return args.Error(0)
}

func (m *MockTimesheetRepository) FindAll(ctx context.Context, offset, limit int, filters outbound.TimesheetFilters) ([]*entity.Timesheet, error) {
	args := m.Called(ctx, offset, limit, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Timesheet), args.Error(1)
}

func (m *MockTimesheetRepository) FindInRange(ctx context.Context, filters outbound.TimesheetFilters) ([]*entity.Timesheet, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Timesheet), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendPasswordResetOTP(ctx context.Context, mail, code string) error {
	args := m.Called(ctx, mail, code)
	return args.Error(0)
}
