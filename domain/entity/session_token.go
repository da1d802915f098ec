package entity

import (
	"time"

	"github.com/empdesk/empdesk/domain/valueobject"
)

// TokenKind distinguishes the two session token flavours. Each kind is signed
// with its own secret.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

func (k TokenKind) String() string {
	return string(k)
}

// SessionToken is the registry record for a minted access or refresh token.
type SessionToken struct {
	Token     string               `json:"-"`
	Identity  valueobject.Identity `json:"identity"`
	Kind      TokenKind            `json:"kind"`
	BoundIP   string               `json:"bound_ip"`
	IssuedAt  time.Time            `json:"issued_at"`
	ExpiresAt time.Time            `json:"expires_at"`
}

// NewSessionToken records a minted token for the registry.
func NewSessionToken(token string, identity valueobject.Identity, kind TokenKind, boundIP string, issuedAt time.Time, ttl time.Duration) *SessionToken {
	return &SessionToken{
		Token:     token,
		Identity:  identity,
		Kind:      kind,
		BoundIP:   boundIP,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(ttl),
	}
}

func (st *SessionToken) IsExpiredAt(now time.Time) bool {
	return now.After(st.ExpiresAt)
}
