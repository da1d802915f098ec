package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/empdesk/empdesk/application/port/inbound"
	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/domain/valueobject"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
	"github.com/empdesk/empdesk/infrastructure/service/metrics"
)

type AuthConfig struct {
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	UserLookupTimeout time.Duration
	// RotateRefreshToken revokes the presented refresh token on every
	// refresh and hands out a new one.
	RotateRefreshToken bool
}

type AuthUseCase struct {
	employeeRepository outbound.EmployeeRepository
	tokenCodec         outbound.TokenCodec
	tempTokens         outbound.TempTokenStore
	sessions           outbound.SessionRegistry
	passwordService    outbound.PasswordService
	logger             logger.Logger
	config             AuthConfig
	now                func() time.Time
}

// NewAuthUseCase wires the session lifecycle.
func NewAuthUseCase(
	employeeRepo outbound.EmployeeRepository,
	tokenCodec outbound.TokenCodec,
	tempTokens outbound.TempTokenStore,
	sessions outbound.SessionRegistry,
	passwordService outbound.PasswordService,
	logger logger.Logger,
	config AuthConfig,
) *AuthUseCase {
	return &AuthUseCase{
		employeeRepository: employeeRepo,
		tokenCodec:         tokenCodec,
		tempTokens:         tempTokens,
		sessions:           sessions,
		passwordService:    passwordService,
		logger:             logger,
		config:             config,
		now:                time.Now,
	}
}

// WithClock sets the time source used for session records and sweeping. The
// codec and stores take their own clock.
func (uc *AuthUseCase) WithClock(now func() time.Time) *AuthUseCase {
	uc.now = now
	return uc
}

// IssueTempToken starts the login handshake for clientIP.
func (uc *AuthUseCase) IssueTempToken(ctx context.Context, clientIP string) (*inbound.TempTokenResponse, error) {
	tok, err := uc.tempTokens.Issue(clientIP)
	if err != nil {
		uc.logger.Error(ctx, "Failed to issue temp token", err, map[string]interface{}{"ip": clientIP})
		return nil, domainerr.ErrInternal.Wrap(err)
	}
	metrics.TempTokensIssuedTotal.Inc()

	return &inbound.TempTokenResponse{
		TempToken: tok.Token,
		ExpiresAt: tok.ExpiresAt,
	}, nil
}

// Login exchanges a temp token plus credentials for an access/refresh pair.
// The temp token is only consumed once the credentials check out, so a typo
// in the password does not force the client to restart the handshake.
func (uc *AuthUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	ip := req.ClientIP

	if !uc.tempTokens.Verify(req.TempToken, ip) {
		metrics.LoginsTotal.WithLabelValues("invalid_temp_token").Inc()
		logger.LogAuthEvent(ctx, uc.logger, "login_invalid_temp_token", req.Username, ip, false, nil)
		return nil, domainerr.ErrInvalidTempToken
	}

	employee, err := uc.authenticate(ctx, req)
	if err != nil {
		status := "invalid_credentials"
		if errors.Is(err, domainerr.ErrServiceUnavailable) {
			status = "lookup_failed"
		}
		metrics.LoginsTotal.WithLabelValues(status).Inc()
		return nil, err
	}

	// Another request may have spent the same temp token while we were
	// checking the password.
	if !uc.tempTokens.TryConsume(req.TempToken, ip) {
		metrics.LoginsTotal.WithLabelValues("invalid_temp_token").Inc()
		logger.LogSecurityEvent(ctx, uc.logger, "temp_token_race_lost", "MEDIUM", map[string]interface{}{
			"username": req.Username,
			"ip":       ip,
		})
		return nil, domainerr.ErrInvalidTempToken
	}

	identity := valueobject.NewIdentity(employee.Username, employee.Role, employee.ID)

	accessToken, err := uc.mint(identity, entity.TokenKindAccess, ip, uc.config.AccessTokenTTL)
	if err != nil {
		uc.logger.Error(ctx, "Failed to mint access token", err, map[string]interface{}{"empid": employee.ID})
		return nil, domainerr.ErrInternal.Wrap(err)
	}
	refreshToken, err := uc.mint(identity, entity.TokenKindRefresh, ip, uc.config.RefreshTokenTTL)
	if err != nil {
		uc.sessions.Revoke(accessToken)
		uc.logger.Error(ctx, "Failed to mint refresh token", err, map[string]interface{}{"empid": employee.ID})
		return nil, domainerr.ErrInternal.Wrap(err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	logger.LogAuthEvent(ctx, uc.logger, "login_success", employee.Username, ip, true, map[string]interface{}{
		"empid": employee.ID,
		"role":  employee.Role,
	})

	pair := valueobject.NewTokenPair(accessToken, refreshToken)
	return &inbound.LoginResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		TokenType:        pair.TokenType,
		ExpiresIn:        int(uc.config.AccessTokenTTL.Seconds()),
		RefreshExpiresIn: int(uc.config.RefreshTokenTTL.Seconds()),
		Identity:         identity,
	}, nil
}

// authenticate looks the employee up under a bounded timeout and checks the
// password. Unknown, inactive and mismatched all read as invalid credentials.
func (uc *AuthUseCase) authenticate(ctx context.Context, req inbound.LoginRequest) (*entity.Employee, error) {
	credentials, err := valueobject.NewCredentials(req.Username, req.Password)
	if err != nil {
		logger.LogAuthEvent(ctx, uc.logger, "login_validation_failed", req.Username, req.ClientIP, false, map[string]interface{}{
			"error": err.Error(),
		})
		return nil, domainerr.ErrInvalidCredentials.Wrap(err)
	}

	lookupCtx := ctx
	if uc.config.UserLookupTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, uc.config.UserLookupTimeout)
		defer cancel()
	}

	start := time.Now()
	employee, err := uc.employeeRepository.FindByUsername(lookupCtx, credentials.Username())
	logger.LogPerformance(ctx, uc.logger, "employee_lookup", time.Since(start), nil)
	if err != nil {
		if errors.Is(err, outbound.ErrEmployeeNotFound) {
			logger.LogAuthEvent(ctx, uc.logger, "login_failed_user_not_found", credentials.Username(), req.ClientIP, false, nil)
			return nil, domainerr.ErrInvalidCredentials
		}
		uc.logger.Error(ctx, "Employee lookup failed", err, map[string]interface{}{
			"username": credentials.Username(),
		})
		return nil, domainerr.ErrServiceUnavailable.Wrap(err)
	}
	if !employee.IsActive {
		logger.LogAuthEvent(ctx, uc.logger, "login_failed_inactive", employee.Username, req.ClientIP, false, nil)
		return nil, domainerr.ErrInvalidCredentials
	}

	ok, err := uc.passwordService.VerifyPassword(credentials.Password(), employee.PasswordHash)
	if err != nil {
		uc.logger.Warn(ctx, "Stored password hash could not be checked", map[string]interface{}{
			"empid": employee.ID,
			"error": err.Error(),
		})
	}
	if !ok {
		logger.LogAuthEvent(ctx, uc.logger, "login_failed_invalid_password", employee.Username, req.ClientIP, false, nil)
		return nil, domainerr.ErrInvalidCredentials
	}

	return employee, nil
}

// mint encodes and registers a session token.
func (uc *AuthUseCase) mint(identity valueobject.Identity, kind entity.TokenKind, ip string, ttl time.Duration) (string, error) {
	token, err := uc.tokenCodec.Encode(identity, kind, ip, ttl)
	if err != nil {
		return "", fmt.Errorf("encode %s token: %w", kind, err)
	}
	uc.sessions.Register(token, entity.NewSessionToken(token, identity, kind, ip, uc.now(), ttl))
	return token, nil
}

// verify is the single validation path for both token kinds: registry
// membership first, then signature, then the claim checks.
func (uc *AuthUseCase) verify(token, clientIP string, kind entity.TokenKind) (*outbound.TokenClaims, error) {
	if !uc.sessions.IsActive(token) {
		return nil, domainerr.ErrTokenNotFound
	}
	claims, err := uc.tokenCodec.Decode(token, kind)
	if err != nil {
		return nil, err
	}
	if err := uc.tokenCodec.Validate(claims, clientIP, kind); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyAccess checks an access token against the registry and the caller IP
// and returns the identity it carries.
func (uc *AuthUseCase) VerifyAccess(ctx context.Context, token, clientIP string) (*valueobject.Identity, error) {
	claims, err := uc.verify(token, clientIP, entity.TokenKindAccess)
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues("access", "failed").Inc()
		uc.logTokenFailure(ctx, "access_token_rejected", clientIP, err)
		return nil, err
	}
	metrics.TokenVerificationsTotal.WithLabelValues("access", "success").Inc()

	identity := claims.Identity()
	return &identity, nil
}

// Refresh mints a new access token from a valid refresh token bound to the
// same IP.
func (uc *AuthUseCase) Refresh(ctx context.Context, req inbound.RefreshRequest) (*inbound.RefreshResponse, error) {
	return uc.refresh(ctx, req, "explicit")
}

func (uc *AuthUseCase) refresh(ctx context.Context, req inbound.RefreshRequest, trigger string) (*inbound.RefreshResponse, error) {
	claims, err := uc.verify(req.RefreshToken, req.ClientIP, entity.TokenKindRefresh)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues(trigger, "failed").Inc()
		uc.logTokenFailure(ctx, "refresh_token_rejected", req.ClientIP, err)
		return nil, err
	}

	identity := claims.Identity()
	accessToken, err := uc.mint(identity, entity.TokenKindAccess, req.ClientIP, uc.config.AccessTokenTTL)
	if err != nil {
		uc.logger.Error(ctx, "Failed to mint access token on refresh", err, map[string]interface{}{"empid": identity.EmployeeID})
		return nil, domainerr.ErrInternal.Wrap(err)
	}

	resp := &inbound.RefreshResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(uc.config.AccessTokenTTL.Seconds()),
	}

	if uc.config.RotateRefreshToken {
		// Revoke first so a concurrent refresh with the same token fails.
		if !uc.sessions.Revoke(req.RefreshToken) {
			uc.sessions.Revoke(accessToken)
			metrics.RefreshesTotal.WithLabelValues(trigger, "failed").Inc()
			return nil, domainerr.ErrTokenNotFound
		}
		refreshToken, err := uc.mint(identity, entity.TokenKindRefresh, req.ClientIP, uc.config.RefreshTokenTTL)
		if err != nil {
			uc.sessions.Revoke(accessToken)
			uc.logger.Error(ctx, "Failed to rotate refresh token", err, map[string]interface{}{"empid": identity.EmployeeID})
			return nil, domainerr.ErrInternal.Wrap(err)
		}
		resp.RefreshToken = refreshToken
		resp.RefreshExpiresIn = int(uc.config.RefreshTokenTTL.Seconds())
	}

	metrics.RefreshesTotal.WithLabelValues(trigger, "success").Inc()
	logger.LogAuthEvent(ctx, uc.logger, "token_refreshed", identity.Username, req.ClientIP, true, map[string]interface{}{
		"trigger": trigger,
		"rotated": uc.config.RotateRefreshToken,
	})
	return resp, nil
}

// AuthenticateRequest resolves the caller of a protected request. An access
// token that fails verification gets exactly one refresh attempt; nothing on
// the refresh path is retried.
func (uc *AuthUseCase) AuthenticateRequest(ctx context.Context, creds inbound.RequestCredentials) (*inbound.AuthenticatedRequest, error) {
	if creds.AccessToken == "" {
		return nil, domainerr.ErrMissingToken
	}

	identity, err := uc.VerifyAccess(ctx, creds.AccessToken, creds.ClientIP)
	if err == nil {
		return &inbound.AuthenticatedRequest{Identity: *identity}, nil
	}
	if creds.RefreshToken == "" {
		return nil, domainerr.ErrUnauthenticated.Wrap(err)
	}

	refreshed, rerr := uc.refresh(ctx, inbound.RefreshRequest{
		RefreshToken: creds.RefreshToken,
		ClientIP:     creds.ClientIP,
	}, "transparent")
	if rerr != nil {
		return nil, domainerr.ErrUnauthenticated.Wrap(rerr)
	}

	identity, err = uc.VerifyAccess(ctx, refreshed.AccessToken, creds.ClientIP)
	if err != nil {
		return nil, domainerr.ErrUnauthenticated.Wrap(err)
	}

	return &inbound.AuthenticatedRequest{
		Identity:  *identity,
		Refreshed: refreshed,
	}, nil
}

// Authorize is an exact role match. There is no role hierarchy.
func (uc *AuthUseCase) Authorize(identity valueobject.Identity, requiredRole string) error {
	if !identity.HasRole(requiredRole) {
		return domainerr.ErrForbidden
	}
	return nil
}

// Revoke removes a single token from the registry. It reports whether the
// token was active.
func (uc *AuthUseCase) Revoke(ctx context.Context, token string) bool {
	revoked := uc.sessions.Revoke(token)
	if revoked {
		metrics.RevocationsTotal.Inc()
	}
	return revoked
}

// RevokeEmployee ends every session of an employee and returns how many
// tokens were dropped.
func (uc *AuthUseCase) RevokeEmployee(ctx context.Context, employeeID int64) int {
	removed := uc.sessions.RevokeEmployee(employeeID)
	if removed > 0 {
		metrics.RevocationsTotal.Add(float64(removed))
		uc.logger.Info(ctx, "Revoked employee sessions", map[string]interface{}{
			"empid":   employeeID,
			"revoked": removed,
		})
	}
	return removed
}

// Logout revokes whichever of the two tokens the caller still holds.
func (uc *AuthUseCase) Logout(ctx context.Context, req inbound.LogoutRequest) error {
	accessRevoked := uc.Revoke(ctx, req.AccessToken)
	refreshRevoked := uc.Revoke(ctx, req.RefreshToken)

	logger.LogAuthEvent(ctx, uc.logger, "logout", "", req.ClientIP, true, map[string]interface{}{
		"access_revoked":  accessRevoked,
		"refresh_revoked": refreshRevoked,
	})
	return nil
}

// Sweep drops expired temp tokens and session tokens.
func (uc *AuthUseCase) Sweep(now time.Time) int {
	temp := uc.tempTokens.Sweep(now)
	sessions := uc.sessions.Sweep(now)

	metrics.SweptTotal.WithLabelValues("temp_tokens").Add(float64(temp))
	metrics.SweptTotal.WithLabelValues("sessions").Add(float64(sessions))
	metrics.ActiveSessions.Set(float64(uc.sessions.Count()))

	if temp+sessions > 0 {
		uc.logger.Debug(context.Background(), "Swept expired tokens", map[string]interface{}{
			"temp_tokens": temp,
			"sessions":    sessions,
		})
	}
	return temp + sessions
}

// RunSweeper sweeps on every tick until ctx is done.
func (uc *AuthUseCase) RunSweeper(ctx context.Context, interval time.Duration) error {
	uc.logger.Info(ctx, "Token sweeper started", map[string]interface{}{"interval": interval.String()})
	return runEvery(ctx, interval, func() {
		uc.Sweep(uc.now())
	})
}

func (uc *AuthUseCase) logTokenFailure(ctx context.Context, event, ip string, err error) {
	fields := map[string]interface{}{
		"ip":     ip,
		"reason": err.Error(),
	}
	// Tokens presented from a different address are worth a closer look.
	if errors.Is(err, domainerr.ErrIPMismatch) || errors.Is(err, domainerr.ErrInvalidSignature) {
		logger.LogSecurityEvent(ctx, uc.logger, event, "MEDIUM", fields)
		return
	}
	uc.logger.Debug(ctx, event, fields)
}

var _ inbound.AuthUseCase = (*AuthUseCase)(nil)
