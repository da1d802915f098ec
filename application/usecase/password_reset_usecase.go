package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/empdesk/empdesk/application/port/inbound"
	"github.com/empdesk/empdesk/application/port/outbound"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/domain/valueobject"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
	"github.com/empdesk/empdesk/infrastructure/service/metrics"
)

const minPasswordLength = 8

type PasswordResetUseCase struct {
	employeeRepository outbound.EmployeeRepository
	passwordService    outbound.PasswordService
	otps               outbound.OTPStore
	notifier           outbound.Notifier
	sessions           SessionRevoker
	generateCode       func() (string, error)
	logger             logger.Logger
	now                func() time.Time
}

// NewPasswordResetUseCase builds the reset flow. generateCode is
// otp.GenerateCode outside tests.
func NewPasswordResetUseCase(
	employeeRepo outbound.EmployeeRepository,
	passwordService outbound.PasswordService,
	otps outbound.OTPStore,
	notifier outbound.Notifier,
	sessions SessionRevoker,
	generateCode func() (string, error),
	logger logger.Logger,
) *PasswordResetUseCase {
	return &PasswordResetUseCase{
		employeeRepository: employeeRepo,
		passwordService:    passwordService,
		otps:               otps,
		notifier:           notifier,
		sessions:           sessions,
		generateCode:       generateCode,
		logger:             logger,
		now:                time.Now,
	}
}

func (uc *PasswordResetUseCase) WithClock(now func() time.Time) *PasswordResetUseCase {
	uc.now = now
	return uc
}

// RequestReset sends a one-time code to the mail address when it belongs to
// an active employee. Unknown addresses get the same silent success so the
// endpoint cannot be used to enumerate accounts.
func (uc *PasswordResetUseCase) RequestReset(ctx context.Context, req inbound.ForgotPasswordRequest) error {
	mail, err := valueobject.NewEmail(req.Mail)
	if err != nil {
		return domainerr.ErrInvalidRequest.WithDetail("Invalid mail address")
	}

	employee, err := uc.employeeRepository.FindByMail(ctx, mail)
	if err != nil {
		if errors.Is(err, outbound.ErrEmployeeNotFound) {
			logger.LogSecurityEvent(ctx, uc.logger, "password_reset_unknown_mail", "LOW", map[string]interface{}{
				"ip": req.ClientIP,
			})
			return nil
		}
		return domainerr.ErrServiceUnavailable.Wrap(err)
	}
	if !employee.IsActive {
		return nil
	}

	code, err := uc.generateCode()
	if err != nil {
		return domainerr.ErrInternal.Wrap(err)
	}
	expiresAt := uc.otps.Put(mail, code, req.ClientIP)

	if err := uc.notifier.SendPasswordResetOTP(ctx, mail, code); err != nil {
		uc.otps.Delete(mail)
		uc.logger.Error(ctx, "Failed to deliver password reset code", err, map[string]interface{}{"empid": employee.ID})
		return domainerr.ErrServiceUnavailable.Wrap(err)
	}

	uc.logger.Info(ctx, "Password reset code issued", map[string]interface{}{
		"empid":      employee.ID,
		"ip":         req.ClientIP,
		"expires_at": expiresAt,
	})
	return nil
}

// VerifyOTP checks the code without spending it.
func (uc *PasswordResetUseCase) VerifyOTP(ctx context.Context, req inbound.VerifyOTPRequest) error {
	mail, err := valueobject.NewEmail(req.Mail)
	if err != nil {
		return domainerr.ErrInvalidRequest.WithDetail("Invalid mail address")
	}
	if !uc.otps.Verify(mail, strings.TrimSpace(req.OTP)) {
		return domainerr.ErrInvalidOTP
	}
	return nil
}

// ResetPassword checks the code again, so skipping the verify step buys
// nothing. Every session the employee holds is revoked afterwards.
func (uc *PasswordResetUseCase) ResetPassword(ctx context.Context, req inbound.ResetPasswordRequest) error {
	mail, err := valueobject.NewEmail(req.Mail)
	if err != nil {
		return domainerr.ErrInvalidRequest.WithDetail("Invalid mail address")
	}
	if req.NewPassword != req.ConfirmPassword {
		return domainerr.ErrInvalidRequest.WithDetail("Passwords do not match")
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}
	if !uc.otps.Verify(mail, strings.TrimSpace(req.OTP)) {
		return domainerr.ErrInvalidOTP
	}

	employee, err := uc.employeeRepository.FindByMail(ctx, mail)
	if err != nil {
		if errors.Is(err, outbound.ErrEmployeeNotFound) {
			uc.otps.Delete(mail)
			return domainerr.ErrInvalidOTP
		}
		return domainerr.ErrServiceUnavailable.Wrap(err)
	}

	requestIP, _ := uc.otps.RequestIP(mail)

	hash, err := uc.passwordService.HashPassword(req.NewPassword)
	if err != nil {
		return domainerr.ErrInvalidRequest.WithDetail("Invalid password").Wrap(err)
	}
	if err := uc.employeeRepository.UpdatePassword(ctx, employee.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	uc.otps.Delete(mail)

	revoked := uc.sessions.RevokeEmployee(ctx, employee.ID)
	logger.LogSecurityEvent(ctx, uc.logger, "password_reset", "MEDIUM", map[string]interface{}{
		"empid":            employee.ID,
		"ip":               req.ClientIP,
		"request_ip":       requestIP,
		"ip_changed":       requestIP != req.ClientIP,
		"revoked_sessions": revoked,
	})
	return nil
}

// Sweep drops expired codes.
func (uc *PasswordResetUseCase) Sweep(now time.Time) int {
	removed := uc.otps.Sweep(now)
	metrics.SweptTotal.WithLabelValues("otps").Add(float64(removed))
	return removed
}

// RunSweeper sweeps on every tick until ctx is done.
func (uc *PasswordResetUseCase) RunSweeper(ctx context.Context, interval time.Duration) error {
	uc.logger.Info(ctx, "OTP sweeper started", map[string]interface{}{"interval": interval.String()})
	return runEvery(ctx, interval, func() {
		uc.Sweep(uc.now())
	})
}

var _ inbound.PasswordResetUseCase = (*PasswordResetUseCase)(nil)
