package auth

import (
	"sync"
	"time"

	"github.com/openfolio-io/okapi-client/internal/constants"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// Token is one session token: the opaque credential string, its
// expiration (zero means unknown/never validated), and the cache scope
// it was loaded from or saved to.
type Token struct {
	AccessToken string           `json:"token"`
	ExpiresAt   time.Time        `json:"expiration"`
	Scope       okapi.TokenScope `json:"scope,omitempty"`
}

// Valid reports whether the token can be attached to requests without a
// renewal attempt. A token with an empty value, an unknown expiration,
// or an expiration at or before now (plus a small renewal buffer) is
// invalid.
func (t *Token) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return false
	}

	return time.Now().Add(constants.TokenExpirationBuffer).Before(t.ExpiresAt)
}

// TokenStore holds the in-memory token for one tenant session. The
// manager owns the token exclusively; the cache-backed store keeps a
// copy for cross-process reuse, not a live reference.
type TokenStore struct {
	mu    sync.RWMutex
	token *Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Get returns the current token, or nil.
func (s *TokenStore) Get() *Token {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

// Set replaces the current token.
func (s *TokenStore) Set(token *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// Clear removes the current token.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
}
