package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// CacheTokenStore persists token copies in the durable cache under
// tenant-namespaced keys, at session scope and optionally at global
// scope for cross-process sharing. Cache misses are a normal outcome,
// not an error. Writes are not synchronized across processes; concurrent
// renewals race and the last write wins.
type CacheTokenStore struct {
	session okapi.Cache
	global  okapi.Cache
	keys    okapi.CacheKeys
}

// NewCacheTokenStore creates a store over the given backends. The global
// backend may be nil when cross-process sharing is disabled.
func NewCacheTokenStore(session, global okapi.Cache, tenant string) *CacheTokenStore {
	return &CacheTokenStore{
		session: session,
		global:  global,
		keys:    okapi.NewCacheKeys(tenant),
	}
}

// GlobalEnabled reports whether a global-scope backend is configured.
func (s *CacheTokenStore) GlobalEnabled() bool {
	return s.global != nil
}

func (s *CacheTokenStore) backend(scope okapi.TokenScope) okapi.Cache {
	if scope == okapi.TokenScopeGlobal {
		return s.global
	}

	return s.session
}

// Load retrieves the token copy at the given scope. A miss returns
// (nil, nil).
func (s *CacheTokenStore) Load(ctx context.Context, scope okapi.TokenScope) (*Token, error) {
	cache := s.backend(scope)
	if cache == nil {
		return nil, nil
	}

	entry, err := cache.Get(ctx, s.keys.Token(scope))
	if err != nil {
		// Misses, expiries, and disabled caches are all "no token".
		return nil, nil
	}

	var token Token

	err = json.Unmarshal(entry.Data, &token)
	if err != nil {
		return nil, fmt.Errorf("decoding cached token: %w", err)
	}

	token.Scope = scope

	return &token, nil
}

// Save stores a token copy at the given scope for ttl. A zero or
// negative ttl means "do not cache" and is a no-op.
func (s *CacheTokenStore) Save(ctx context.Context, scope okapi.TokenScope, token *Token, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	cache := s.backend(scope)
	if cache == nil {
		return nil
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	entry := &okapi.CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	}

	err = cache.Set(ctx, s.keys.Token(scope), entry)
	if err != nil {
		return fmt.Errorf("caching token at %s scope: %w", scope, err)
	}

	return nil
}
