package outbound

import (
	"time"

	"github.com/empdesk/empdesk/domain/entity"
)

// TempTokenStore holds the single-use login handshake tokens.
type TempTokenStore interface {
	Issue(boundIP string) (*entity.TempToken, error)
	Verify(token, clientIP string) bool
	Consume(token string)
	// TryConsume verifies and consumes in one step; only one caller can win.
	TryConsume(token, clientIP string) bool
	Sweep(now time.Time) int
}

// SessionRegistry is the set of honored session tokens. Removing an entry
// revokes the token.
type SessionRegistry interface {
	Register(token string, record *entity.SessionToken)
	IsActive(token string) bool
	Revoke(token string) bool
	RevokeEmployee(employeeID int64) int
	Sweep(now time.Time) int
	Count() int
}

// OTPStore keeps pending password-reset codes keyed by mail address.
type OTPStore interface {
	Put(mail, code, requestIP string) time.Time
	Verify(mail, code string) bool
	RequestIP(mail string) (string, bool)
	Delete(mail string)
	Sweep(now time.Time) int
}
