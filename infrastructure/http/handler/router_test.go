package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/empdesk/empdesk/application/port/inbound"
	"github.com/empdesk/empdesk/application/usecase"
	"github.com/empdesk/empdesk/domain/entity"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/infrastructure/config"
	"github.com/empdesk/empdesk/infrastructure/http/middleware"
	"github.com/empdesk/empdesk/infrastructure/service/jwt"
	"github.com/empdesk/empdesk/infrastructure/service/logger"
	"github.com/empdesk/empdesk/infrastructure/service/password"
	"github.com/empdesk/empdesk/infrastructure/service/tokenstore"
)

const (
	clientAddr = "10.1.1.1:5000"
	otherAddr  = "10.2.2.2:5000"
	testPass   = "s3cret-pass"
)

type routerFixture struct {
	router     http.Handler
	leaves     *MockLeaveUseCase
	timesheets *MockTimesheetUseCase
	employees  *MockEmployeeUseCase
	resets     *MockPasswordResetUseCase
}

func newRouterFixture(t *testing.T, opts ...func(*RouterConfig)) *routerFixture {
	t.Helper()
	log := logger.NewDiscardLogger()

	passwords := password.NewBcryptPasswordService(bcrypt.MinCost)
	hash, err := passwords.HashPassword(testPass)
	require.NoError(t, err)
	repo := newMemoryEmployees(
		entity.NewEmployee("Alice", "Doe", "alice@example.com", "alice", hash, entity.RoleEmployee, 10),
		entity.NewEmployee("Hana", "Roe", "hana@example.com", "hana", hash, entity.RoleHR, 10),
	)

	codec, err := jwt.NewJWTService(&config.Config{JWTSecret: "access-secret", JWTRefreshSecret: "refresh-secret"})
	require.NoError(t, err)

	auth := usecase.NewAuthUseCase(repo, codec,
		tokenstore.NewTempTokenStore(5*time.Minute, time.Now),
		tokenstore.NewSessionRegistry(),
		passwords, log,
		usecase.AuthConfig{
			AccessTokenTTL:    15 * time.Minute,
			RefreshTokenTTL:   7 * 24 * time.Hour,
			UserLookupTimeout: time.Second,
		})

	f := &routerFixture{
		leaves:     new(MockLeaveUseCase),
		timesheets: new(MockTimesheetUseCase),
		employees:  new(MockEmployeeUseCase),
		resets:     new(MockPasswordResetUseCase),
	}
	cookies := middleware.Cookies{Secure: true}
	cfg := RouterConfig{
		Auth:           NewAuthHandler(auth, cookies, false, log),
		Employees:      NewEmployeeHandler(f.employees, log),
		Leaves:         NewLeaveHandler(f.leaves, log),
		Timesheets:     NewTimesheetHandler(f.timesheets, log),
		PasswordReset:  NewPasswordResetHandler(f.resets, false, log),
		AuthMiddleware: middleware.NewAuthMiddleware(auth, cookies, false, log),
		Logger:         log,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	f.router = NewRouter(cfg)
	return f
}

func (f *routerFixture) do(r *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		r.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, r)
	return rec
}

func request(method, target, body, remoteAddr string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	r.RemoteAddr = remoteAddr
	return r
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var env struct {
		Status bool            `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Status, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (f *routerFixture) tempToken(t *testing.T, addr string) string {
	t.Helper()
	rec := f.do(request(http.MethodGet, "/auth/temp-token", "", addr))
	require.Equal(t, http.StatusOK, rec.Code)
	var tt inbound.TempTokenResponse
	decodeData(t, rec, &tt)
	require.NotEmpty(t, tt.TempToken)
	return tt.TempToken
}

// login returns the access and refresh cookies.
func (f *routerFixture) login(t *testing.T, username, addr string) (*http.Cookie, *http.Cookie) {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + testPass + `","temp_token":"` + f.tempToken(t, addr) + `"}`
	rec := f.do(request(http.MethodPost, "/auth/login", body, addr))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	access, refresh := cookieNamed(rec, middleware.AccessTokenCookie), cookieNamed(rec, middleware.RefreshTokenCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	return access, refresh
}

func TestLoginFlow(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("CookiesAreHardened", func(t *testing.T) {
		access, refresh := f.login(t, "alice", clientAddr)
		for _, c := range []*http.Cookie{access, refresh} {
			assert.True(t, c.HttpOnly)
			assert.True(t, c.Secure)
			assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
			assert.Equal(t, "/", c.Path)
		}
		assert.Equal(t, 900, access.MaxAge)
		assert.Equal(t, 7*24*3600, refresh.MaxAge)
	})

	t.Run("MeReturnsIdentity", func(t *testing.T) {
		access, _ := f.login(t, "alice", clientAddr)
		rec := f.do(request(http.MethodGet, "/auth/me", "", clientAddr), access)
		require.Equal(t, http.StatusOK, rec.Code)

		var me struct {
			Username string `json:"username"`
			Role     string `json:"role"`
			EmpID    int64  `json:"empid"`
		}
		decodeData(t, rec, &me)
		assert.Equal(t, "alice", me.Username)
		assert.Equal(t, entity.RoleEmployee, me.Role)
		assert.Equal(t, int64(1), me.EmpID)
	})

	t.Run("TokensStayOutOfBody", func(t *testing.T) {
		body := `{"username":"alice","password":"` + testPass + `","temp_token":"` + f.tempToken(t, clientAddr) + `"}`
		rec := f.do(request(http.MethodPost, "/auth/login", body, clientAddr))
		require.Equal(t, http.StatusOK, rec.Code)

		access, refresh := cookieNamed(rec, middleware.AccessTokenCookie), cookieNamed(rec, middleware.RefreshTokenCookie)
		require.NotNil(t, access)
		require.NotNil(t, refresh)
		assert.NotContains(t, rec.Body.String(), access.Value)
		assert.NotContains(t, rec.Body.String(), refresh.Value)
		assert.NotContains(t, rec.Body.String(), "refresh_token")
		assert.Contains(t, rec.Body.String(), `"expires_in":900`)
	})

	t.Run("RootIssuesTempToken", func(t *testing.T) {
		rec := f.do(request(http.MethodGet, "/", "", clientAddr))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "temp_token")
	})

	t.Run("TempTokenIsSingleUse", func(t *testing.T) {
		tok := f.tempToken(t, clientAddr)
		body := `{"username":"alice","password":"` + testPass + `","temp_token":"` + tok + `"}`

		rec := f.do(request(http.MethodPost, "/auth/login", body, clientAddr))
		require.Equal(t, http.StatusOK, rec.Code)
		rec = f.do(request(http.MethodPost, "/auth/login", body, clientAddr))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("TempTokenIsBoundToIP", func(t *testing.T) {
		tok := f.tempToken(t, clientAddr)
		body := `{"username":"alice","password":"` + testPass + `","temp_token":"` + tok + `"}`
		rec := f.do(request(http.MethodPost, "/auth/login", body, otherAddr))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("FormLoginWithQueryTempToken", func(t *testing.T) {
		tok := f.tempToken(t, clientAddr)
		form := url.Values{"username": {"alice"}, "password": {testPass}}
		r := httptest.NewRequest(http.MethodPost, "/auth/login?temp_token="+url.QueryEscape(tok), strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.RemoteAddr = clientAddr

		rec := f.do(r)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("WrongPassword", func(t *testing.T) {
		body := `{"username":"alice","password":"nope","temp_token":"` + f.tempToken(t, clientAddr) + `"}`
		rec := f.do(request(http.MethodPost, "/auth/login", body, clientAddr))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var problem struct {
			Code   int    `json:"code"`
			Detail string `json:"detail"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		assert.Equal(t, http.StatusUnauthorized, problem.Code)
	})
}

func TestSessionBinding(t *testing.T) {
	f := newRouterFixture(t)

	t.Run("OtherIPIsRejected", func(t *testing.T) {
		access, refresh := f.login(t, "alice", clientAddr)
		rec := f.do(request(http.MethodGet, "/auth/me", "", otherAddr), access, refresh)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MissingAccessIsRejected", func(t *testing.T) {
		_, refresh := f.login(t, "alice", clientAddr)
		rec := f.do(request(http.MethodGet, "/auth/me", "", clientAddr), refresh)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidAccessIsRefreshedTransparently", func(t *testing.T) {
		_, refresh := f.login(t, "alice", clientAddr)
		bogus := &http.Cookie{Name: middleware.AccessTokenCookie, Value: "not-a-token"}

		rec := f.do(request(http.MethodGet, "/auth/me", "", clientAddr), bogus, refresh)
		require.Equal(t, http.StatusOK, rec.Code)
		renewed := cookieNamed(rec, middleware.AccessTokenCookie)
		require.NotNil(t, renewed)

		rec = f.do(request(http.MethodGet, "/auth/me", "", clientAddr), renewed)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("RefreshEndpoint", func(t *testing.T) {
		_, refresh := f.login(t, "alice", clientAddr)
		rec := f.do(request(http.MethodPost, "/auth/refresh", "", clientAddr), refresh)
		require.Equal(t, http.StatusOK, rec.Code)
		access := cookieNamed(rec, middleware.AccessTokenCookie)
		require.NotNil(t, access)
		assert.NotContains(t, rec.Body.String(), access.Value)
		assert.NotContains(t, rec.Body.String(), refresh.Value)

		rec = f.do(request(http.MethodPost, "/auth/refresh", "", clientAddr))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("LogoutRevokes", func(t *testing.T) {
		access, refresh := f.login(t, "alice", clientAddr)
		rec := f.do(request(http.MethodPost, "/auth/logout", "", clientAddr), access, refresh)
		require.Equal(t, http.StatusOK, rec.Code)
		cleared := cookieNamed(rec, middleware.AccessTokenCookie)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)

		rec = f.do(request(http.MethodGet, "/auth/me", "", clientAddr), access, refresh)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRoleGates(t *testing.T) {
	f := newRouterFixture(t)
	aliceAccess, _ := f.login(t, "alice", clientAddr)
	hanaAccess, _ := f.login(t, "hana", clientAddr)

	approved := &entity.Leave{ID: 3, EmployeeID: 1, Status: entity.LeaveStatusApproved}
	f.leaves.On("ApproveLeave", mock.Anything, int64(3)).Return(approved, nil)

	rec := f.do(request(http.MethodPut, "/leaves/3/approve", "", clientAddr), aliceAccess)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	f.leaves.AssertNotCalled(t, "ApproveLeave", mock.Anything, mock.Anything)

	rec = f.do(request(http.MethodPut, "/leaves/3/approve", "", clientAddr), hanaAccess)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(request(http.MethodPut, "/leaves/3/approve", "", clientAddr))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Exact match: hr is not admin.
	rec = f.do(request(http.MethodPost, "/employees", `{}`, clientAddr), hanaAccess)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLeaveRoutes(t *testing.T) {
	f := newRouterFixture(t)
	access, _ := f.login(t, "alice", clientAddr)

	t.Run("Create", func(t *testing.T) {
		f.leaves.On("RequestLeave", mock.Anything, mock.Anything,
			inbound.CreateLeaveRequest{StartDate: "2024-05-06", EndDate: "2024-05-07", LeaveType: "vacation"}).
			Return(&entity.Leave{ID: 9, Status: entity.LeaveStatusPending}, nil).Once()

		rec := f.do(request(http.MethodPost, "/leaves",
			`{"start_date":"2024-05-06","end_date":"2024-05-07","leave_type":"vacation"}`, clientAddr), access)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"leave_id":9`)
	})

	t.Run("BusinessRule", func(t *testing.T) {
		f.leaves.On("RequestLeave", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domainerr.ErrBusinessRule.WithDetail("Insufficient leave balance")).Once()

		rec := f.do(request(http.MethodPost, "/leaves",
			`{"start_date":"2024-05-06","end_date":"2024-06-07","leave_type":"vacation"}`, clientAddr), access)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Insufficient leave balance")
	})

	t.Run("ListBadDate", func(t *testing.T) {
		rec := f.do(request(http.MethodGet, "/leaves?start_date=yesterday", "", clientAddr), access)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("BadBody", func(t *testing.T) {
		rec := f.do(request(http.MethodPost, "/leaves", `{`, clientAddr), access)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTimesheetSummaryRoute(t *testing.T) {
	f := newRouterFixture(t)
	access, _ := f.login(t, "alice", clientAddr)

	rec := f.do(request(http.MethodGet, "/timesheets/summary?start_date=2024-05-01", "", clientAddr), access)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
	f.timesheets.On("Summary", mock.Anything, mock.Anything, start, end).
		Return(&entity.TimesheetSummary{TotalEntries: 2, TotalHours: 15}, nil)

	rec = f.do(request(http.MethodGet, "/timesheets/summary?start_date=2024-05-01&end_date=2024-05-31", "", clientAddr), access)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_hours":15`)
}

func TestPasswordResetRoutes(t *testing.T) {
	f := newRouterFixture(t)
	f.resets.On("RequestReset", mock.Anything, inbound.ForgotPasswordRequest{Mail: "alice@example.com", ClientIP: "10.1.1.1"}).Return(nil)
	f.resets.On("VerifyOTP", mock.Anything, mock.Anything).Return(domainerr.ErrInvalidOTP)

	rec := f.do(request(http.MethodPost, "/auth/forgot-password", `{"mail":"alice@example.com"}`, clientAddr))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(request(http.MethodPost, "/auth/forgot-password/verify", `{"mail":"alice@example.com","otp":"000000"}`, clientAddr))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(request(http.MethodGet, "/nope", "", clientAddr))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":404`)
}

func TestHealthRoute(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		f := newRouterFixture(t, func(cfg *RouterConfig) {
			cfg.Health = func(context.Context) error { return nil }
		})
		rec := f.do(request(http.MethodGet, "/health", "", clientAddr))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "healthy")
	})

	t.Run("StoreDown", func(t *testing.T) {
		f := newRouterFixture(t, func(cfg *RouterConfig) {
			cfg.Health = func(context.Context) error { return errors.New("connection refused") }
		})
		rec := f.do(request(http.MethodGet, "/health", "", clientAddr))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestMetricsRoute(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(request(http.MethodGet, "/metrics", "", clientAddr))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Enabled", func(t *testing.T) {
		f := newRouterFixture(t, func(cfg *RouterConfig) { cfg.MetricsEnabled = true })
		rec := f.do(request(http.MethodGet, "/health", "", clientAddr))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(request(http.MethodGet, "/metrics", "", clientAddr))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "empdesk_http_request_duration_seconds")
	})
}
