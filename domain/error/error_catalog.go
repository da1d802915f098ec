package error

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode string

// Error codes for different categories
const (
	// Authentication Errors (1xxx)
	ErrCodeInvalidTempToken   ErrorCode = "AUTH_1001"
	ErrCodeInvalidCredentials ErrorCode = "AUTH_1002"
	ErrCodeTokenNotFound      ErrorCode = "AUTH_1003"
	ErrCodeMalformedToken     ErrorCode = "AUTH_1004"
	ErrCodeInvalidSignature   ErrorCode = "AUTH_1005"
	ErrCodeTokenExpired       ErrorCode = "AUTH_1006"
	ErrCodeIPMismatch         ErrorCode = "AUTH_1007"
	ErrCodeWrongTokenType     ErrorCode = "AUTH_1008"
	ErrCodeMissingClaims      ErrorCode = "AUTH_1009"
	ErrCodeMissingToken       ErrorCode = "AUTH_1010"
	ErrCodeUnauthenticated    ErrorCode = "AUTH_1011"
	ErrCodeInvalidOTP         ErrorCode = "AUTH_1012"

	// Authorization Errors (2xxx)
	ErrCodeForbidden ErrorCode = "AUTHZ_2001"

	// Request Errors (3xxx)
	ErrCodeInvalidRequest ErrorCode = "REQ_3001"
	ErrCodeNotFound       ErrorCode = "REQ_3002"
	ErrCodeBusinessRule   ErrorCode = "REQ_3003"
	ErrCodeConflict       ErrorCode = "REQ_3004"

	// Rate Limiting Errors (4xxx)
	ErrCodeRateLimitExceeded ErrorCode = "RATE_4001"

	// Server Errors (5xxx)
	ErrCodeInternalServerError ErrorCode = "SERVER_5001"
	ErrCodeServiceUnavailable  ErrorCode = "SERVER_5002"
)

// Public detail shared by every token-level failure. Which check failed is
// only visible in logs.
const credentialDetail = "Invalid or expired credentials"

// AppError represents a structured application error. Message is the
// internal description; Detail is what callers get to see.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Detail  string    `json:"detail"`
	Status  int       `json:"-"`
	Cause   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code, so copies produced by
// Wrap and WithDetail still satisfy errors.Is against the sentinels below.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, status int, message, detail string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Status:  status,
	}
}

// Wrap returns a copy of e with cause attached.
func (e *AppError) Wrap(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetail returns a copy of e with a caller-facing detail.
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// Authentication errors
var (
	ErrInvalidTempToken   = NewAppError(ErrCodeInvalidTempToken, http.StatusUnauthorized, "temp token invalid, used, expired or bound to another ip", "Invalid or expired login session, reload the login page")
	ErrInvalidCredentials = NewAppError(ErrCodeInvalidCredentials, http.StatusUnauthorized, "unknown user, inactive user or wrong password", "Incorrect username or password")
	ErrTokenNotFound      = NewAppError(ErrCodeTokenNotFound, http.StatusUnauthorized, "token not present in session registry", credentialDetail)
	ErrMalformedToken     = NewAppError(ErrCodeMalformedToken, http.StatusUnauthorized, "token could not be parsed", credentialDetail)
	ErrInvalidSignature   = NewAppError(ErrCodeInvalidSignature, http.StatusUnauthorized, "token signature invalid", credentialDetail)
	ErrTokenExpired       = NewAppError(ErrCodeTokenExpired, http.StatusUnauthorized, "token expired", credentialDetail)
	ErrIPMismatch         = NewAppError(ErrCodeIPMismatch, http.StatusUnauthorized, "token bound to a different ip", credentialDetail)
	ErrWrongTokenType     = NewAppError(ErrCodeWrongTokenType, http.StatusUnauthorized, "unexpected token type", credentialDetail)
	ErrMissingClaims      = NewAppError(ErrCodeMissingClaims, http.StatusUnauthorized, "token lacks sub, role or empid", credentialDetail)
	ErrMissingToken       = NewAppError(ErrCodeMissingToken, http.StatusUnauthorized, "no access token presented", "Not authenticated")
	ErrUnauthenticated    = NewAppError(ErrCodeUnauthenticated, http.StatusUnauthorized, "access token invalid and refresh failed", credentialDetail)
	ErrInvalidOTP         = NewAppError(ErrCodeInvalidOTP, http.StatusBadRequest, "otp unknown, expired or mismatched", "Invalid or expired OTP")
)

// Authorization errors
var ErrForbidden = NewAppError(ErrCodeForbidden, http.StatusForbidden, "role does not satisfy route requirement", "Not enough permissions")

// Request errors
var (
	ErrInvalidRequest = NewAppError(ErrCodeInvalidRequest, http.StatusBadRequest, "request failed validation", "Invalid request")
	ErrNotFound       = NewAppError(ErrCodeNotFound, http.StatusNotFound, "resource not found", "Not found")
	ErrBusinessRule   = NewAppError(ErrCodeBusinessRule, http.StatusBadRequest, "business rule violated", "Request not allowed")
	ErrConflict       = NewAppError(ErrCodeConflict, http.StatusBadRequest, "resource already exists", "Already registered")
)

// Rate limiting errors
var ErrRateLimitExceeded = NewAppError(ErrCodeRateLimitExceeded, http.StatusTooManyRequests, "rate limit exceeded", "Too many requests")

// Server errors
var (
	ErrInternal           = NewAppError(ErrCodeInternalServerError, http.StatusInternalServerError, "internal server error", "Internal server error")
	ErrServiceUnavailable = NewAppError(ErrCodeServiceUnavailable, http.StatusServiceUnavailable, "dependency unavailable", "Service temporarily unavailable")
)

// IsTokenError reports whether err is one of the 401-class token failures.
func IsTokenError(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Status == http.StatusUnauthorized
}

// GetHTTPStatusCode maps err to the status code it should be served with.
func GetHTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// PublicDetail is the message safe to return to the caller.
func PublicDetail(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Detail != "" {
		return appErr.Detail
	}
	return ErrInternal.Detail
}
