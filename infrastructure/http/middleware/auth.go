package middleware

import (
	"context"
	"net/http"

	"github.com/empdesk/empdesk/application/port/inbound"
	"github.com/empdesk/empdesk/domain/valueobject"
	"github.com/empdesk/empdesk/infrastructure/http/response"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

type identityKey struct{}

type AuthMiddleware struct {
	authUseCase inbound.AuthUseCase
	cookies     Cookies
	trustProxy  bool
	logger      logger.Logger
}

// NewAuthMiddleware builds the cookie based session gate.
func NewAuthMiddleware(authUseCase inbound.AuthUseCase, cookies Cookies, trustProxy bool, logger logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authUseCase: authUseCase,
		cookies:     cookies,
		trustProxy:  trustProxy,
		logger:      logger,
	}
}

// RequireAuth authenticates the request from its cookies. When the access
// token had to be renewed the new cookies go out with the response.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		result, err := m.authUseCase.AuthenticateRequest(ctx, inbound.RequestCredentials{
			AccessToken:  Read(r, AccessTokenCookie),
			RefreshToken: Read(r, RefreshTokenCookie),
			ClientIP:     ClientIP(r, m.trustProxy),
		})
		if err != nil {
			m.logger.Debug(ctx, "Request not authenticated", map[string]interface{}{
				"path":  r.URL.Path,
				"error": err.Error(),
			})
			response.FromError(w, err)
			return
		}

		if refreshed := result.Refreshed; refreshed != nil {
			m.cookies.SetAccess(w, refreshed.AccessToken, refreshed.ExpiresIn)
			if refreshed.RefreshToken != "" {
				m.cookies.SetRefresh(w, refreshed.RefreshToken, refreshed.RefreshExpiresIn)
			}
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, result.Identity)))
	})
}

// RequireRole authenticates the request and then demands exactly role.
func (m *AuthMiddleware) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := IdentityFromContext(r.Context())
			if err := m.authUseCase.Authorize(identity, role); err != nil {
				logger.LogSecurityEvent(r.Context(), m.logger, "role_denied", "LOW", map[string]interface{}{
					"username": identity.Username,
					"role":     identity.Role,
					"required": role,
					"path":     r.URL.Path,
				})
				response.FromError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

// WithIdentity stores the authenticated caller on ctx.
func WithIdentity(ctx context.Context, identity valueobject.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity RequireAuth attached.
func IdentityFromContext(ctx context.Context) (valueobject.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(valueobject.Identity)
	return identity, ok
}
