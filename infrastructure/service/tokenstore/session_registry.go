package tokenstore

import (
	"sync"
	"time"

	"github.com/empdesk/empdesk/domain/entity"
)

// SessionRegistry is the in-memory set of honored session tokens.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*entity.SessionToken
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*entity.SessionToken),
	}
}

// Register records a freshly minted token. Re-registering replaces the record.
func (r *SessionRegistry) Register(token string, record *entity.SessionToken) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = record
}

// IsActive reports membership only; expiry is checked by the token codec.
func (r *SessionRegistry) IsActive(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[token]
	return ok
}

// Revoke removes token and reports whether it was registered.
func (r *SessionRegistry) Revoke(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[token]; !ok {
		return false
	}
	delete(r.sessions, token)
	return true
}

// RevokeEmployee removes every access and refresh token issued to employeeID.
func (r *SessionRegistry) RevokeEmployee(employeeID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, rec := range r.sessions {
		if rec.Identity.EmployeeID == employeeID {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

// Sweep drops records whose expiry is before now and returns how many went.
func (r *SessionRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for token, rec := range r.sessions {
		if rec.ExpiresAt.Before(now) {
			delete(r.sessions, token)
			removed++
		}
	}
	return removed
}

// Count is the number of registered tokens.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
