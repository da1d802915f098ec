package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/empdesk/empdesk/application/port/outbound"
	"github.com/empdesk/empdesk/domain/entity"
	domainerr "github.com/empdesk/empdesk/domain/error"
	"github.com/empdesk/empdesk/domain/valueobject"
	"github.com/empdesk/empdesk/infrastructure/config"
)

const signingAlgorithm = "HS256"

// JWTService is the session token codec. Access and refresh tokens are
// signed with separate HMAC secrets.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

var ErrSharedSecret = errors.New("access and refresh secrets must differ")

// NewJWTService refuses a configuration where both token kinds share a secret.
func NewJWTService(cfg *config.Config) (*JWTService, error) {
	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("jwt secrets must not be empty")
	}
	if cfg.JWTSecret == cfg.JWTRefreshSecret {
		return nil, ErrSharedSecret
	}
	return &JWTService{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		now:           time.Now,
	}, nil
}

// WithClock replaces the time source used for exp/iat and for Validate.
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

func (s *JWTService) secretFor(kind entity.TokenKind) ([]byte, error) {
	switch kind {
	case entity.TokenKindAccess:
		return s.accessSecret, nil
	case entity.TokenKindRefresh:
		return s.refreshSecret, nil
	}
	return nil, fmt.Errorf("unknown token kind %q", kind)
}

// Encode signs a token of the given kind for identity, bound to boundIP.
func (s *JWTService) Encode(identity valueobject.Identity, kind entity.TokenKind, boundIP string, ttl time.Duration) (string, error) {
	secret, err := s.secretFor(kind)
	if err != nil {
		return "", err
	}

	now := s.now()
	tokenClaims := jwt.MapClaims{
		"sub":   identity.Username,
		"role":  identity.Role,
		"empid": identity.EmployeeID,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
		"ip":    boundIP,
		"type":  string(kind),
		"jti":   uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}

	return tokenString, nil
}

// Decode checks the signature with the secret for kind and returns the raw
// claims. It does not check expiry or the bound IP; Validate does.
func (s *JWTService) Decode(tokenString string, kind entity.TokenKind) (*outbound.TokenClaims, error) {
	secret, err := s.secretFor(kind)
	if err != nil {
		return nil, domainerr.ErrWrongTokenType.Wrap(err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingAlgorithm}),
		jwt.WithoutClaimsValidation(),
		jwt.WithJSONNumber(),
	)

	claims := jwt.MapClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, s.handleValidationError(err)
	}
	if !token.Valid {
		return nil, domainerr.ErrInvalidSignature
	}

	return toTokenClaims(claims)
}

// Validate checks type, expiry, bound ip and required claims, in that order,
// and returns the first failure.
func (s *JWTService) Validate(claims *outbound.TokenClaims, boundIP string, expected entity.TokenKind) error {
	if claims.Type != expected {
		return domainerr.ErrWrongTokenType
	}
	if s.now().After(claims.ExpiresAt) {
		return domainerr.ErrTokenExpired
	}
	if claims.IP != boundIP {
		return domainerr.ErrIPMismatch
	}
	if !claims.HasSubject || !claims.HasRole || !claims.HasEmployeeID {
		return domainerr.ErrMissingClaims
	}
	return nil
}

func (s *JWTService) handleValidationError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) || errors.Is(err, jwt.ErrTokenUnverifiable) {
		return domainerr.ErrInvalidSignature.Wrap(err)
	}
	return domainerr.ErrMalformedToken.Wrap(err)
}

func toTokenClaims(claims jwt.MapClaims) (*outbound.TokenClaims, error) {
	out := &outbound.TokenClaims{}

	exp, ok := numericClaim(claims["exp"])
	if !ok {
		return nil, domainerr.ErrMalformedToken.Wrap(errors.New("exp claim missing or not numeric"))
	}
	out.ExpiresAt = time.Unix(exp, 0)

	if iat, ok := numericClaim(claims["iat"]); ok {
		out.IssuedAt = time.Unix(iat, 0)
	}

	// Required claims are checked by key presence. An empty sub or role is
	// present and passes Validate.
	if sub, ok := claims["sub"]; ok {
		out.Subject, _ = sub.(string)
		out.HasSubject = true
	}
	if role, ok := claims["role"]; ok {
		out.Role, _ = role.(string)
		out.HasRole = true
	}
	if empid, ok := numericClaim(claims["empid"]); ok {
		out.EmployeeID = empid
		out.HasEmployeeID = true
	}

	out.IP, _ = claims["ip"].(string)
	if typ, ok := claims["type"].(string); ok {
		out.Type = entity.TokenKind(typ)
	}
	out.ID, _ = claims["jti"].(string)

	return out, nil
}

func numericClaim(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return i, true
	case float64:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
