package middleware

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/empdesk/empdesk/application/port/inbound"
	"github.com/empdesk/empdesk/domain/valueobject"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) IssueTempToken(ctx context.Context, clientIP string) (*inbound.TempTokenResponse, error) {
	args := m.Called(ctx, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.TempTokenResponse), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.LoginResponse), args.Error(1)
}

func (m *MockAuthUseCase) VerifyAccess(ctx context.Context, token, clientIP string) (*valueobject.Identity, error) {
	args := m.Called(ctx, token, clientIP)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*valueobject.Identity), args.Error(1)
}

func (m *MockAuthUseCase) Refresh(ctx context.Context, req inbound.RefreshRequest) (*inbound.RefreshResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.RefreshResponse), args.Error(1)
}

func (m *MockAuthUseCase) AuthenticateRequest(ctx context.Context, creds inbound.RequestCredentials) (*inbound.AuthenticatedRequest, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.AuthenticatedRequest), args.Error(1)
}

func (m *MockAuthUseCase) Authorize(identity valueobject.Identity, requiredRole string) error {
	args := m.Called(identity, requiredRole)
	return args.Error(0)
}

func (m *MockAuthUseCase) Revoke(ctx context.Context, token string) bool {
	return m.Called(ctx, token).Bool(0)
}

func (m *MockAuthUseCase) RevokeEmployee(ctx context.Context, employeeID int64) int {
	return m.Called(ctx, employeeID).Int(0)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, req inbound.LogoutRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuthUseCase) Sweep(now time.Time) int {
	return m.Called(now).Int(0)
}

func (m *MockAuthUseCase) RunSweeper(ctx context.Context, interval time.Duration) error {
	return m.Called(ctx, interval).Error(0)
}

type MockRateLimitService struct {
	mock.Mock
}

func (m *MockRateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimitService) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	args := m.Called(ctx, key, window)
	return args.Int(0), args.Error(1)
}

func (m *MockRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	return m.Called(ctx, key, duration, reason).Error(0)
}

func (m *MockRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockRateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockRateLimitService) Close() error {
	return m.Called().Error(0)
}
