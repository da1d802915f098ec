package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/empdesk/empdesk/domain/entity"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/infrastructure/http/middleware"
	"github.com/empdesk/empdesk/infrastructure/http/response"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
	"github.com/empdesk/empdesk/infrastructure/service/metrics"
)

type RouterConfig struct {
	Auth          *AuthHandler
	Employees     *EmployeeHandler
	Leaves        *LeaveHandler
	Timesheets    *TimesheetHandler
	PasswordReset *PasswordResetHandler

	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware

	// Health reports whether the backing store is reachable.
	Health func(ctx context.Context) error

	Logger           logger.Logger
	MetricsEnabled   bool
	RequestLogEnable bool
	TrustProxy       bool
}

// NewRouter wires every route with the role it requires.
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.FromError(w, domainerr.ErrNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if cfg.MetricsEnabled {
		r.Use(middleware.MetricsMiddleware)
	}
	r.Use(middleware.RequestLogMiddleware(cfg.Logger, cfg.RequestLogEnable, cfg.TrustProxy))

	authed := func(h http.HandlerFunc) http.Handler {
		return cfg.AuthMiddleware.RequireAuth(h)
	}
	role := func(role string, h http.HandlerFunc) http.Handler {
		return cfg.AuthMiddleware.RequireRole(role)(h)
	}
	limited := func(scope string, h http.HandlerFunc) http.Handler {
		if cfg.RateLimitMiddleware == nil {
			return h
		}
		return cfg.RateLimitMiddleware.Limit(scope)(h)
	}

	// Login handshake.
	r.Handle("/", limited("temp_token", cfg.Auth.TempToken)).Methods(http.MethodGet)
	r.Handle("/auth/temp-token", limited("temp_token", cfg.Auth.TempToken)).Methods(http.MethodGet)
	r.Handle("/auth/login", limited("login", cfg.Auth.Login)).Methods(http.MethodPost)
	r.Handle("/auth/refresh", limited("refresh", cfg.Auth.Refresh)).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", cfg.Auth.Logout).Methods(http.MethodPost)
	r.Handle("/auth/me", authed(cfg.Auth.Me)).Methods(http.MethodGet)

	r.Handle("/auth/forgot-password", limited("password_reset", cfg.PasswordReset.ForgotPassword)).Methods(http.MethodPost)
	r.Handle("/auth/forgot-password/verify", limited("password_reset", cfg.PasswordReset.VerifyOTP)).Methods(http.MethodPost)
	r.Handle("/auth/reset-password", limited("password_reset", cfg.PasswordReset.ResetPassword)).Methods(http.MethodPost)

	r.Handle("/employees", role(entity.RoleAdmin, cfg.Employees.Create)).Methods(http.MethodPost)
	r.Handle("/employees", role(entity.RoleHR, cfg.Employees.List)).Methods(http.MethodGet)
	r.Handle("/employees/{empid:[0-9]+}", authed(cfg.Employees.Get)).Methods(http.MethodGet)
	r.Handle("/employees/{empid:[0-9]+}", role(entity.RoleHR, cfg.Employees.Update)).Methods(http.MethodPut)
	r.Handle("/employees/{empid:[0-9]+}", role(entity.RoleAdmin, cfg.Employees.Deactivate)).Methods(http.MethodDelete)

	r.Handle("/leaves", authed(cfg.Leaves.Create)).Methods(http.MethodPost)
	r.Handle("/leaves", authed(cfg.Leaves.List)).Methods(http.MethodGet)
	r.Handle("/leaves/{leave_id:[0-9]+}/approve", role(entity.RoleHR, cfg.Leaves.Approve)).Methods(http.MethodPut)
	r.Handle("/leaves/{leave_id:[0-9]+}/reject", role(entity.RoleHR, cfg.Leaves.Reject)).Methods(http.MethodPut)

	r.Handle("/timesheets", authed(cfg.Timesheets.Create)).Methods(http.MethodPost)
	r.Handle("/timesheets", authed(cfg.Timesheets.List)).Methods(http.MethodGet)
	r.Handle("/timesheets/summary", authed(cfg.Timesheets.Summary)).Methods(http.MethodGet)

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(req.Context()); err != nil {
				cfg.Logger.Error(req.Context(), "Health check failed", err, nil)
				response.FromError(w, domainerr.ErrServiceUnavailable)
				return
			}
		}
		response.Success(w, http.StatusOK, "healthy", nil)
	}).Methods(http.MethodGet)

	if cfg.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}
