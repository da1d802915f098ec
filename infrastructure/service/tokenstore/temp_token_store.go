package tokenstore

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/empdesk/empdesk/domain/entity"
)

// tempTokenBytes is the entropy of a handshake token before encoding.
const tempTokenBytes = 32

// TempTokenStore keeps login handshake tokens in process memory.
type TempTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*entity.TempToken
	ttl    time.Duration
	now    func() time.Time
}

// NewTempTokenStore returns a store whose tokens live for ttl as measured by now.
func NewTempTokenStore(ttl time.Duration, now func() time.Time) *TempTokenStore {
	if now == nil {
		now = time.Now
	}
	return &TempTokenStore{
		tokens: make(map[string]*entity.TempToken),
		ttl:    ttl,
		now:    now,
	}
}

// Issue mints a random handshake token bound to boundIP.
func (s *TempTokenStore) Issue(boundIP string) (*entity.TempToken, error) {
	buf := make([]byte, tempTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate temp token: %w", err)
	}
	tok := entity.NewTempToken(base64.RawURLEncoding.EncodeToString(buf), boundIP, s.now(), s.ttl)

	s.mu.Lock()
	s.tokens[tok.Token] = tok
	s.mu.Unlock()

	cp := *tok
	return &cp, nil
}

// Verify does not mutate the store.
func (s *TempTokenStore) Verify(token, clientIP string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[token]
	return ok && tok.UsableAt(s.now(), clientIP)
}

// Consume marks token used. Unknown tokens are ignored.
func (s *TempTokenStore) Consume(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok, ok := s.tokens[token]; ok {
		tok.Used = true
	}
}

// TryConsume verifies and consumes token under one lock. Of two concurrent
// callers presenting the same token at most one gets true.
func (s *TempTokenStore) TryConsume(token, clientIP string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.tokens[token]
	if !ok || !tok.UsableAt(s.now(), clientIP) {
		return false
	}
	tok.Used = true
	return true
}

// Sweep drops every token whose expiry is before now and reports how many
// were removed.
func (s *TempTokenStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, tok := range s.tokens {
		if tok.IsExpiredAt(now) {
			delete(s.tokens, key)
			removed++
		}
	}
	return removed
}

// Len counts tokens, consumed ones included, until they are swept.
func (s *TempTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
