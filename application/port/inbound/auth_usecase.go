package inbound

import (
	"context"
	"time"

	"github.com/empdesk/empdesk/domain/valueobject"
)

type TempTokenResponse struct {
	TempToken string    `json:"temp_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	TempToken string `json:"temp_token"`
	ClientIP  string `json:"-"`
}

// LoginResponse is the login result. Both tokens travel only in HttpOnly
// cookies, so they are never serialized into the response body.
type LoginResponse struct {
	AccessToken      string               `json:"-"`
	RefreshToken     string               `json:"-"`
	TokenType        string               `json:"token_type"`
	ExpiresIn        int                  `json:"expires_in"`
	RefreshExpiresIn int                  `json:"-"`
	Identity         valueobject.Identity `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
	ClientIP     string `json:"-"`
}

type RefreshResponse struct {
	AccessToken string `json:"-"`
	ExpiresIn   int    `json:"expires_in"`
	// RefreshToken is only set when refresh tokens rotate on use.
	RefreshToken     string `json:"-"`
	RefreshExpiresIn int    `json:"-"`
}

// RequestCredentials is what a protected request carries in its cookies.
type RequestCredentials struct {
	AccessToken  string
	RefreshToken string
	ClientIP     string
}

// AuthenticatedRequest is the result of authenticating a request. Refreshed
// is non-nil when the access token was transparently renewed and the caller
// must hand the new cookies back to the client.
type AuthenticatedRequest struct {
	Identity  valueobject.Identity
	Refreshed *RefreshResponse
}

type LogoutRequest struct {
	AccessToken  string
	RefreshToken string
	ClientIP     string
}

type AuthUseCase interface {
	IssueTempToken(ctx context.Context, clientIP string) (*TempTokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	VerifyAccess(ctx context.Context, token, clientIP string) (*valueobject.Identity, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	AuthenticateRequest(ctx context.Context, creds RequestCredentials) (*AuthenticatedRequest, error)
	Authorize(identity valueobject.Identity, requiredRole string) error
	Revoke(ctx context.Context, token string) bool
	RevokeEmployee(ctx context.Context, employeeID int64) int
	Logout(ctx context.Context, req LogoutRequest) error
	Sweep(now time.Time) int
	RunSweeper(ctx context.Context, interval time.Duration) error
}
