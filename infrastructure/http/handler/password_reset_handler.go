package handler

import (
	"net/http"

	"github.com/empdesk/empdesk/application/port/inbound"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/infrastructure/http/middleware"
	"github.com/empdesk/empdesk/infrastructure/http/response"
	"github.com/empdesk/empdesk/infrastructure/http/validator"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

type PasswordResetHandler struct {
	passwordResetUseCase inbound.PasswordResetUseCase
	trustProxy           bool
	logger               logger.Logger
}

// NewPasswordResetHandler serves the three password reset steps.
func NewPasswordResetHandler(passwordResetUseCase inbound.PasswordResetUseCase, trustProxy bool, logger logger.Logger) *PasswordResetHandler {
	return &PasswordResetHandler{
		passwordResetUseCase: passwordResetUseCase,
		trustProxy:           trustProxy,
		logger:               logger,
	}
}

// ForgotPassword answers the same way whether or not the mail is known.
func (h *PasswordResetHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req inbound.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if !validator.ValidateRequired(req.Mail) {
		writeError(w, r, h.logger, domainerr.ErrInvalidRequest.WithDetail("mail is required"))
		return
	}
	req.ClientIP = middleware.ClientIP(r, h.trustProxy)

	if err := h.passwordResetUseCase.RequestReset(r.Context(), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "If the address is registered, a reset code has been sent", nil)
}

// VerifyOTP handles POST /auth/forgot-password/verify.
func (h *PasswordResetHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req inbound.VerifyOTPRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.passwordResetUseCase.VerifyOTP(r.Context(), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Code verified", nil)
}

// ResetPassword handles POST /auth/reset-password.
func (h *PasswordResetHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req inbound.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.ClientIP = middleware.ClientIP(r, h.trustProxy)

	if err := h.passwordResetUseCase.ResetPassword(r.Context(), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Password has been reset", nil)
}
