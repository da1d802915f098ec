package entity

import (
	"time"
)

// TempToken proves that a browser at BoundIP recently loaded the login page.
type TempToken struct {
	Token     string    `json:"temp_token"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"-"`
	BoundIP   string    `json:"-"`
}

// NewTempToken returns an unused handshake token bound to boundIP.
func NewTempToken(token, boundIP string, issuedAt time.Time, ttl time.Duration) *TempToken {
	return &TempToken{
		Token:     token,
		ExpiresAt: issuedAt.Add(ttl),
		BoundIP:   boundIP,
	}
}

func (t *TempToken) IsExpiredAt(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// UsableAt reports whether the token may still be exchanged from clientIP.
func (t *TempToken) UsableAt(now time.Time, clientIP string) bool {
	return !t.Used && !t.IsExpiredAt(now) && t.BoundIP == clientIP
}
