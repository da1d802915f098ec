package outbound

import (
	"time"

	"github.com/empdesk/empdesk/domain/entity"
	"github.com/empdesk/empdesk/domain/valueobject"
)

// TokenClaims is the decoded payload of a session token. The Has* flags
// record whether a claim was present so a missing claim is not mistaken for a
// zero value.
type TokenClaims struct {
	Subject    string
	Role       string
	EmployeeID int64
	ExpiresAt  time.Time
	IssuedAt   time.Time
	IP         string
	Type       entity.TokenKind
	ID         string

	HasSubject    bool
	HasRole       bool
	HasEmployeeID bool
}

// Identity is the caller the claims describe.
func (c *TokenClaims) Identity() valueobject.Identity {
	return valueobject.NewIdentity(c.Subject, c.Role, c.EmployeeID)
}

// TokenCodec signs and parses session tokens. Access and refresh tokens are
// signed with different secrets.
type TokenCodec interface {
	// Encode signs identity plus exp/ip/type claims with the secret for kind.
	Encode(identity valueobject.Identity, kind entity.TokenKind, boundIP string, ttl time.Duration) (string, error)
	// Decode checks the signature only. Expiry, ip and type are left to Validate.
	Decode(token string, kind entity.TokenKind) (*TokenClaims, error)
	// Validate runs the type, expiry, ip and required-claim checks in that order.
	Validate(claims *TokenClaims, boundIP string, expected entity.TokenKind) error
}
