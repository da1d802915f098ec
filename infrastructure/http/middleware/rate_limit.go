package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/empdesk/empdesk/application/port/inbound"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/infrastructure/http/response"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
)

type RateLimitConfig struct {
	Attempts      int
	Window        time.Duration
	BlockDuration time.Duration
	TrustProxy    bool
}

type RateLimitMiddleware struct {
	rateLimitService inbound.RateLimitService
	config           RateLimitConfig
	logger           logger.Logger
}

// NewRateLimitMiddleware limits requests per client IP and scope.
func NewRateLimitMiddleware(rateLimitService inbound.RateLimitService, config RateLimitConfig, logger logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		config:           config,
		logger:           logger,
	}
}

// Limit counts requests per client IP under scope. Limiter errors let the
// request through; an unavailable Redis must not lock everybody out.
func (m *RateLimitMiddleware) Limit(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.rateLimitService == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			clientIP := ClientIP(r, m.config.TrustProxy)
			key := fmt.Sprintf("%s:ip:%s", scope, clientIP)

			blocked, err := m.rateLimitService.IsBlocked(ctx, key)
			if err != nil {
				m.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{
					"ip":  clientIP,
					"key": key,
				})
			}
			if blocked {
				m.reject(w, r, key, clientIP, m.config.BlockDuration)
				return
			}

			attempts, err := m.rateLimitService.Increment(ctx, key, m.config.Window)
			if err != nil {
				m.logger.Error(ctx, "Failed to count request", err, map[string]interface{}{
					"ip":  clientIP,
					"key": key,
				})
				next.ServeHTTP(w, r)
				return
			}

			if attempts > m.config.Attempts {
				if err := m.rateLimitService.Block(ctx, key, m.config.BlockDuration, "Rate limit exceeded"); err != nil {
					m.logger.Error(ctx, "Failed to block IP", err, map[string]interface{}{
						"ip":  clientIP,
						"key": key,
					})
				}
				logger.LogSecurityEvent(ctx, m.logger, "rate_limit_exceeded", "HIGH", map[string]interface{}{
					"ip":        clientIP,
					"path":      r.URL.Path,
					"key":       key,
					"attempts":  attempts,
					"userAgent": r.UserAgent(),
				})
				m.reject(w, r, key, clientIP, m.config.BlockDuration)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *RateLimitMiddleware) reject(w http.ResponseWriter, r *http.Request, key, clientIP string, retryAfter time.Duration) {
	logger.LogSecurityEvent(r.Context(), m.logger, "rate_limit_blocked", "MEDIUM", map[string]interface{}{
		"ip":   clientIP,
		"path": r.URL.Path,
		"key":  key,
	})
	w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
	response.FromError(w, domainerr.ErrRateLimitExceeded)
}
