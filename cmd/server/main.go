package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/empdesk/empdesk/application/usecase"
	"github.com/empdesk/empdesk/infrastructure/adapter/postgres"
	"github.com/empdesk/empdesk/infrastructure/config"
	"github.com/empdesk/empdesk/infrastructure/db"
	"github.com/empdesk/empdesk/infrastructure/http/handler"
	"github.com/empdesk/empdesk/infrastructure/http/middleware"
	"github.com/empdesk/empdesk/infrastructure/service/jwt"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
	"github.com/empdesk/empdesk/infrastructure/service/notifier"
	"github.com/empdesk/empdesk/infrastructure/service/otp"
	"github.com/empdesk/empdesk/infrastructure/service/password"
	"github.com/empdesk/empdesk/infrastructure/service/ratelimit"
	"github.com/empdesk/empdesk/infrastructure/service/tokenstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		CorrelationIDHeader: middleware.CorrelationIDHeader,
		EnableRequestLog:    cfg.LogEnableRequestLog,
		EnableResponseLog:   cfg.LogEnableResponseLog,
		ServiceName:         "empdesk",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to connect to database", err, nil)
		os.Exit(1)
	}
	defer conn.Close()
	structuredLogger.Info(ctx, "Database connection established", nil)

	// Rate limiting is Redis-backed when enabled; the service falls back to a
	// no-op limiter otherwise.
	rateLimitService, err := ratelimit.NewRateLimitService(ctx, ratelimit.RateLimitConfig{
		Enabled:       cfg.RateLimitEnabled,
		RedisURL:      cfg.RedisURL,
		IPAttempts:    cfg.RateLimitIPAttempts,
		IPWindow:      cfg.RateLimitIPWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, structuredLogger)
	if err != nil {
		structuredLogger.Warn(ctx, "Rate limiting unavailable, continuing without it", map[string]interface{}{
			"error": err.Error(),
		})
		rateLimitService = ratelimit.NewNoopRateLimitService()
	}
	defer rateLimitService.Close()

	// Repositories
	employeeRepo := postgres.NewEmployeeRepository(conn)
	leaveRepo := postgres.NewLeaveRepository(conn)
	timesheetRepo := postgres.NewTimesheetRepository(conn)

	// Services
	tokenService, err := jwt.NewJWTService(cfg)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize JWT service", err, nil)
		os.Exit(1)
	}
	passwordService := password.NewBcryptPasswordService(cfg.BcryptCost)
	tempTokens := tokenstore.NewTempTokenStore(cfg.TempTokenTTL, time.Now)
	sessions := tokenstore.NewSessionRegistry()
	otps := otp.NewStore(cfg.PasswordResetOTPTTL, time.Now)

	// Use cases
	authUseCase := usecase.NewAuthUseCase(
		employeeRepo,
		tokenService,
		tempTokens,
		sessions,
		passwordService,
		structuredLogger,
		usecase.AuthConfig{
			AccessTokenTTL:     cfg.AccessTokenTTL,
			RefreshTokenTTL:    cfg.RefreshTokenTTL,
			UserLookupTimeout:  cfg.UserLookupTimeout,
			RotateRefreshToken: cfg.RefreshTokenRotate,
		},
	)
	employeeUseCase := usecase.NewEmployeeUseCase(employeeRepo, passwordService, authUseCase, structuredLogger)
	leaveUseCase := usecase.NewLeaveUseCase(leaveRepo, employeeRepo, structuredLogger)
	timesheetUseCase := usecase.NewTimesheetUseCase(timesheetRepo, structuredLogger)
	passwordResetUseCase := usecase.NewPasswordResetUseCase(
		employeeRepo,
		passwordService,
		otps,
		notifier.NewLogNotifier(structuredLogger),
		authUseCase,
		otp.GenerateCode,
		structuredLogger,
	)

	// Middleware
	cookies := middleware.Cookies{Secure: cfg.CookieSecure}
	authMiddleware := middleware.NewAuthMiddleware(authUseCase, cookies, cfg.TrustProxyHeaders, structuredLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimitService, middleware.RateLimitConfig{
		Attempts:      cfg.RateLimitIPAttempts,
		Window:        cfg.RateLimitIPWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
		TrustProxy:    cfg.TrustProxyHeaders,
	}, structuredLogger)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:                handler.NewAuthHandler(authUseCase, cookies, cfg.TrustProxyHeaders, structuredLogger),
		Employees:           handler.NewEmployeeHandler(employeeUseCase, structuredLogger),
		Leaves:              handler.NewLeaveHandler(leaveUseCase, structuredLogger),
		Timesheets:          handler.NewTimesheetHandler(timesheetUseCase, structuredLogger),
		PasswordReset:       handler.NewPasswordResetHandler(passwordResetUseCase, cfg.TrustProxyHeaders, structuredLogger),
		AuthMiddleware:      authMiddleware,
		RateLimitMiddleware: rateLimitMiddleware,
		Health:              conn.PingContext,
		Logger:              structuredLogger,
		MetricsEnabled:      cfg.MetricsEnabled,
		RequestLogEnable:    cfg.LogEnableRequestLog,
		TrustProxy:          cfg.TrustProxyHeaders,
	})

	// Compose middleware: security headers, correlation ID, then CORS (if enabled)
	var h http.Handler = middleware.SecurityHeadersMiddleware(router)
	h = middleware.CorrelationIDMiddleware(h)
	if cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0 {
		h = middleware.CORSMiddleware(h, cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)
	}
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		structuredLogger.Info(gctx, "Starting server", map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return authUseCase.RunSweeper(gctx, cfg.TokenSweepInterval)
	})
	g.Go(func() error {
		return passwordResetUseCase.RunSweeper(gctx, cfg.TokenSweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		structuredLogger.Info(context.Background(), "Shutting down server...", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		structuredLogger.Error(context.Background(), "Server stopped with error", err, nil)
		os.Exit(1)
	}
	structuredLogger.Info(context.Background(), "Server exited", nil)
}
