package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

// MaxAttempts is how many wrong codes a pending reset tolerates before it is
// discarded.
const MaxAttempts = 5

type entry struct {
	code      string
	expiresAt time.Time
	requestIP string
	attempts  int
}

// Store keeps pending password reset codes keyed by lower-cased mail.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

// NewStore returns a store whose codes live for ttl. A nil now uses time.Now.
func NewStore(ttl time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     now,
	}
}

// Put replaces any pending code for mail and returns its expiry.
func (s *Store) Put(mail, code, requestIP string) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(s.ttl)
	s.entries[normalize(mail)] = &entry{
		code:      code,
		expiresAt: expiresAt,
		requestIP: requestIP,
	}
	return expiresAt
}

// Verify compares code in constant time. A pending code survives a correct
// guess and is dropped after MaxAttempts wrong ones or once expired.
func (s *Store) Verify(mail, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalize(mail)
	e, ok := s.entries[key]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(e.code), []byte(code)) != 1 {
		e.attempts++
		if e.attempts >= MaxAttempts {
			delete(s.entries, key)
		}
		return false
	}
	return true
}

// RequestIP returns the address that asked for the pending code for mail.
func (s *Store) RequestIP(mail string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[normalize(mail)]
	if !ok || s.now().After(e.expiresAt) {
		return "", false
	}
	return e.requestIP, true
}

// Delete drops the pending code for mail, if any.
func (s *Store) Delete(mail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, normalize(mail))
}

// Sweep drops expired codes and returns how many went.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// GenerateCode returns a uniformly random 6-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalize(mail string) string {
	return strings.ToLower(strings.TrimSpace(mail))
}
