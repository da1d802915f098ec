package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL            string
	JWTSecret              string
	JWTRefreshSecret       string
	AccessTokenTTL         time.Duration
	RefreshTokenTTL        time.Duration
	TempTokenTTL           time.Duration
	RefreshTokenRotate     bool
	TokenSweepInterval     time.Duration
	UserLookupTimeout      time.Duration
	PasswordResetOTPTTL    time.Duration
	BcryptCost             int
	CookieSecure           bool
	TrustProxyHeaders      bool
	ServerPort             string
	ServerHost             string
	Environment            string
	RedisURL               string
	RateLimitEnabled       bool
	RateLimitIPAttempts    int
	RateLimitIPWindow      time.Duration
	RateLimitBlockDuration time.Duration
	MetricsEnabled         bool
	LogLevel               string
	LogFormat              string
	LogCorrelationIDHeader string
	LogEnableRequestLog    bool
	LogEnableResponseLog   bool

	// CORS configuration
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var (
	ErrMissingDatabaseURL   = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret     = errors.New("JWT_SECRET is required")
	ErrMissingRefreshSecret = errors.New("JWT_REFRESH_SECRET is required")
	ErrSharedSigningSecret  = errors.New("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	ErrInvalidTokenTTL      = errors.New("invalid token TTL format")
	ErrNonPositiveInterval  = errors.New("TTLs and intervals must be positive")
)

// Load reads .env when present, then the environment. A missing database URL
// or signing secret is an error.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		JWTRefreshSecret:       os.Getenv("JWT_REFRESH_SECRET"),
		RefreshTokenRotate:     getEnvOrDefaultBool("REFRESH_TOKEN_ROTATE", false),
		BcryptCost:             getEnvOrDefaultInt("BCRYPT_COST", 10),
		CookieSecure:           getEnvOrDefaultBool("COOKIE_SECURE", true),
		TrustProxyHeaders:      getEnvOrDefaultBool("TRUST_PROXY_HEADERS", false),
		ServerPort:             getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:             getEnvOrDefault("SERVER_HOST", "localhost"),
		Environment:            getEnvOrDefault("ENV", "development"),
		RedisURL:               getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled:       getEnvOrDefaultBool("RATE_LIMIT_ENABLED", false),
		RateLimitIPAttempts:    getEnvOrDefaultInt("RATE_LIMIT_IP_ATTEMPTS", 20),
		MetricsEnabled:         getEnvOrDefaultBool("METRICS_ENABLED", true),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		LogCorrelationIDHeader: getEnvOrDefault("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),
		LogEnableRequestLog:    getEnvOrDefaultBool("LOG_ENABLE_REQUEST_LOG", true),
		LogEnableResponseLog:   getEnvOrDefaultBool("LOG_ENABLE_RESPONSE_LOG", false),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   parseAllowedOrigins(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.JWTRefreshSecret == "" {
		return nil, ErrMissingRefreshSecret
	}
	if cfg.JWTSecret == cfg.JWTRefreshSecret {
		return nil, ErrSharedSigningSecret
	}

	// All durations below are given in seconds.
	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"JWT_ACCESS_TOKEN_TTL", "900", &cfg.AccessTokenTTL},
		{"JWT_REFRESH_TOKEN_TTL", "604800", &cfg.RefreshTokenTTL},
		{"TEMP_TOKEN_TTL", "300", &cfg.TempTokenTTL},
		{"TOKEN_SWEEP_INTERVAL", "300", &cfg.TokenSweepInterval},
		{"USER_LOOKUP_TIMEOUT", "3", &cfg.UserLookupTimeout},
		{"PASSWORD_RESET_OTP_TTL", "600", &cfg.PasswordResetOTPTTL},
		{"RATE_LIMIT_IP_WINDOW", "60", &cfg.RateLimitIPWindow},
		{"RATE_LIMIT_BLOCK_DURATION", "300", &cfg.RateLimitBlockDuration},
	}
	for _, d := range durations {
		v, err := parseTokenTTL(getEnvOrDefault(d.key, d.def))
		if err != nil {
			return nil, ErrInvalidTokenTTL
		}
		if v <= 0 {
			return nil, ErrNonPositiveInterval
		}
		*d.dst = v
	}

	return cfg, nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func parseTokenTTL(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseAllowedOrigins(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
