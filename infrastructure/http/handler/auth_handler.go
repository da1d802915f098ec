package handler

import (
	"net/http"
	"strings"

	"github.com/empdesk/empdesk/application/port/inbound"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/infrastructure/http/middleware"
	"github.com/empdesk/empdesk/infrastructure/http/response"
	"github.com/empdesk/empdesk/infrastructure/http/validator"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
	cookies     middleware.Cookies
	trustProxy  bool
	logger      logger.Logger
}

// NewAuthHandler serves the login handshake and session endpoints.
func NewAuthHandler(authUseCase inbound.AuthUseCase, cookies middleware.Cookies, trustProxy bool, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		cookies:     cookies,
		trustProxy:  trustProxy,
		logger:      logger,
	}
}

// TempToken hands out the login handshake token, bound to the caller's IP.
func (h *AuthHandler) TempToken(w http.ResponseWriter, r *http.Request) {
	res, err := h.authUseCase.IssueTempToken(r.Context(), middleware.ClientIP(r, h.trustProxy))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", res)
}

// Login accepts a JSON body or a form post. The temp token may also come as a
// query parameter.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			writeError(w, r, h.logger, domainerr.ErrInvalidRequest.WithDetail("Invalid form body"))
			return
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		req.TempToken = r.PostFormValue("temp_token")
	}
	if req.TempToken == "" {
		req.TempToken = r.URL.Query().Get("temp_token")
	}
	req.ClientIP = middleware.ClientIP(r, h.trustProxy)

	res, err := h.authUseCase.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.cookies.SetAccess(w, res.AccessToken, res.ExpiresIn)
	h.cookies.SetRefresh(w, res.RefreshToken, res.RefreshExpiresIn)
	response.Success(w, http.StatusOK, "success", res)
}

// Refresh mints a new access token from the refresh cookie, or from a
// refresh_token field for clients that cannot send cookies.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	req := inbound.RefreshRequest{RefreshToken: middleware.Read(r, middleware.RefreshTokenCookie)}
	if req.RefreshToken == "" && r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}
	if req.RefreshToken == "" {
		writeError(w, r, h.logger, domainerr.ErrMissingToken)
		return
	}
	if !validator.ValidateToken(req.RefreshToken) {
		writeError(w, r, h.logger, domainerr.ErrMalformedToken)
		return
	}
	req.ClientIP = middleware.ClientIP(r, h.trustProxy)

	res, err := h.authUseCase.Refresh(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.cookies.SetAccess(w, res.AccessToken, res.ExpiresIn)
	if res.RefreshToken != "" {
		h.cookies.SetRefresh(w, res.RefreshToken, res.RefreshExpiresIn)
	}
	response.Success(w, http.StatusOK, "success", res)
}

// Logout revokes whatever session cookies the client still holds. It works
// without a valid access token so an expired session can still be closed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.authUseCase.Logout(r.Context(), inbound.LogoutRequest{
		AccessToken:  middleware.Read(r, middleware.AccessTokenCookie),
		RefreshToken: middleware.Read(r, middleware.RefreshTokenCookie),
		ClientIP:     middleware.ClientIP(r, h.trustProxy),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.cookies.Clear(w)
	response.Success(w, http.StatusOK, "logged out", nil)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", identity)
}
