package inbound

import (
	"context"
	"time"
)

type ForgotPasswordRequest struct {
	Mail     string `json:"mail"`
	ClientIP string `json:"-"`
}

type VerifyOTPRequest struct {
	Mail string `json:"mail"`
	OTP  string `json:"otp"`
}

type ResetPasswordRequest struct {
	Mail            string `json:"mail"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
	ClientIP        string `json:"-"`
}

type PasswordResetUseCase interface {
	RequestReset(ctx context.Context, req ForgotPasswordRequest) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	Sweep(now time.Time) int
	RunSweeper(ctx context.Context, interval time.Duration) error
}
