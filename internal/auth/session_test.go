package auth_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openfolio-io/okapi-client/internal/auth"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStrategy counts credential exchanges and returns canned tokens.
type fakeStrategy struct {
	protocol okapi.AuthProtocol
	err      error
	ttl      time.Duration
	logins   int
}

func (s *fakeStrategy) Login(ctx context.Context) (*auth.Token, error) {
	s.logins++

	if s.err != nil {
		return nil, s.err
	}

	return &auth.Token{
		AccessToken: fmt.Sprintf("token-%d", s.logins),
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil
}

func (s *fakeStrategy) Protocol() okapi.AuthProtocol {
	if s.protocol == "" {
		return okapi.AuthProtocolRotating
	}

	return s.protocol
}

func (s *fakeStrategy) CacheTTL(token *auth.Token) time.Duration {
	if s.ttl > 0 {
		return s.ttl
	}

	return time.Hour
}

func newTestManager(strategy auth.Strategy, session, global okapi.Cache, httpClient auth.HTTPDoer, baseURL string) *auth.Manager {
	store := auth.NewCacheTokenStore(session, global, "diku")

	return auth.NewManager(strategy, store, httpClient, baseURL, "diku", nil)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestManager_EnsureFresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("renews once and persists at session scope", func(t *testing.T) {
		t.Parallel()

		strategy := &fakeStrategy{}
		session := okapi.NewMemoryCache(10)
		manager := newTestManager(strategy, session, nil, nil, "http://unused")

		token, err := manager.EnsureFresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-1", token.AccessToken)
		assert.Equal(t, 1, strategy.logins)

		// The fresh token is valid, so a second call performs no exchange.
		token, err = manager.EnsureFresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-1", token.AccessToken)
		assert.Equal(t, 1, strategy.logins)

		keys := okapi.NewCacheKeys("diku")
		assert.True(t, session.Has(ctx, keys.Token(okapi.TokenScopeSession)))
	})

	t.Run("persists at global scope when enabled", func(t *testing.T) {
		t.Parallel()

		strategy := &fakeStrategy{}
		session := okapi.NewMemoryCache(10)
		global := okapi.NewMemoryCache(10)
		manager := newTestManager(strategy, session, global, nil, "http://unused")

		_, err := manager.EnsureFresh(ctx)
		require.NoError(t, err)

		keys := okapi.NewCacheKeys("diku")
		assert.True(t, session.Has(ctx, keys.Token(okapi.TokenScopeSession)))
		assert.True(t, global.Has(ctx, keys.Token(okapi.TokenScopeGlobal)))
	})

	t.Run("reuses a cached token without an exchange", func(t *testing.T) {
		t.Parallel()

		session := okapi.NewMemoryCache(10)

		// A previous process left a fresh token in the cache.
		seed := &fakeStrategy{}
		seeder := newTestManager(seed, session, nil, nil, "http://unused")
		_, err := seeder.EnsureFresh(ctx)
		require.NoError(t, err)

		strategy := &fakeStrategy{}
		manager := newTestManager(strategy, session, nil, nil, "http://unused")

		token, err := manager.EnsureFresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-1", token.AccessToken)
		assert.Equal(t, 0, strategy.logins)
	})

	t.Run("falls back to the global scope", func(t *testing.T) {
		t.Parallel()

		global := okapi.NewMemoryCache(10)

		seed := &fakeStrategy{}
		seeder := newTestManager(seed, okapi.NewMemoryCache(10), global, nil, "http://unused")
		_, err := seeder.EnsureFresh(ctx)
		require.NoError(t, err)

		strategy := &fakeStrategy{}
		manager := newTestManager(strategy, okapi.NewMemoryCache(10), global, nil, "http://unused")

		token, err := manager.EnsureFresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-1", token.AccessToken)
		assert.Equal(t, 0, strategy.logins)
		assert.Equal(t, okapi.TokenScopeGlobal, token.Scope)
	})

	t.Run("failed renewal clears state and writes nothing", func(t *testing.T) {
		t.Parallel()

		strategy := &fakeStrategy{err: errors.New("login refused")}
		session := okapi.NewMemoryCache(10)
		manager := newTestManager(strategy, session, nil, nil, "http://unused")

		_, err := manager.EnsureFresh(ctx)
		require.True(t, okapi.IsAuthentication(err))
		assert.Contains(t, err.Error(), "diku")

		assert.Nil(t, manager.Current())

		keys := okapi.NewCacheKeys("diku")
		assert.False(t, session.Has(ctx, keys.Token(okapi.TokenScopeSession)))
	})

	t.Run("protocol violations pass through unwrapped", func(t *testing.T) {
		t.Parallel()

		strategy := &fakeStrategy{err: &okapi.AuthProtocolError{Endpoint: "/authn/login", Artifact: "X-Okapi-Token header"}}
		manager := newTestManager(strategy, okapi.NewMemoryCache(10), nil, nil, "http://unused")

		_, err := manager.EnsureFresh(ctx)
		require.True(t, okapi.IsAuthProtocol(err))
		assert.False(t, okapi.IsAuthentication(err))
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestManager_Validate_Legacy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("probe confirms a cached token", func(t *testing.T) {
		t.Parallel()

		probes := 0

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			probes++

			assert.Equal(t, "/users", request.URL.Path)
			assert.Equal(t, "1", request.URL.Query().Get("limit"))
			assert.Equal(t, "diku", request.Header.Get("X-Okapi-Tenant"))
			assert.NotEmpty(t, request.Header.Get("X-Okapi-Token"))

			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		session := okapi.NewMemoryCache(10)

		seed := &fakeStrategy{protocol: okapi.AuthProtocolLegacy}
		seeder := newTestManager(seed, session, nil, server.Client(), server.URL)
		_, err := seeder.Renew(ctx)
		require.NoError(t, err)

		strategy := &fakeStrategy{protocol: okapi.AuthProtocolLegacy}
		manager := newTestManager(strategy, session, nil, server.Client(), server.URL)

		token, err := manager.Validate(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-1", token.AccessToken)
		assert.Equal(t, 0, strategy.logins)
		assert.Equal(t, 1, probes)

		// A confirmed token is not re-probed.
		_, err = manager.Validate(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, probes)
	})

	t.Run("rejected probe renews exactly once", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		session := okapi.NewMemoryCache(10)

		seed := &fakeStrategy{protocol: okapi.AuthProtocolLegacy}
		seeder := newTestManager(seed, session, nil, server.Client(), server.URL)
		_, err := seeder.Renew(ctx)
		require.NoError(t, err)

		strategy := &fakeStrategy{protocol: okapi.AuthProtocolLegacy}
		manager := newTestManager(strategy, session, nil, server.Client(), server.URL)

		token, err := manager.Validate(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-1", token.AccessToken)
		assert.Equal(t, 1, strategy.logins)
	})

	t.Run("unexpected probe status is an upstream error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		session := okapi.NewMemoryCache(10)

		seed := &fakeStrategy{protocol: okapi.AuthProtocolLegacy}
		seeder := newTestManager(seed, session, nil, server.Client(), server.URL)
		_, err := seeder.Renew(ctx)
		require.NoError(t, err)

		strategy := &fakeStrategy{protocol: okapi.AuthProtocolLegacy}
		manager := newTestManager(strategy, session, nil, server.Client(), server.URL)

		_, err = manager.Validate(ctx)
		require.True(t, okapi.IsUpstreamData(err))
		assert.Equal(t, 0, strategy.logins)
	})

	t.Run("no token at all renews without probing", func(t *testing.T) {
		t.Parallel()

		strategy := &fakeStrategy{protocol: okapi.AuthProtocolLegacy}
		manager := newTestManager(strategy, okapi.NewMemoryCache(10), nil, nil, "http://unused")

		token, err := manager.Validate(ctx)
		require.NoError(t, err)
		assert.Equal(t, "token-1", token.AccessToken)
		assert.Equal(t, 1, strategy.logins)
	})
}

func TestManager_Validate_Rotating(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	strategy := &fakeStrategy{protocol: okapi.AuthProtocolRotating}
	manager := newTestManager(strategy, okapi.NewMemoryCache(10), nil, nil, "http://unused")

	// The declared expiry is authoritative; no probe request is needed
	// (there is no live server behind the manager).
	token, err := manager.Validate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "token-1", token.AccessToken)

	_, err = manager.Validate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, strategy.logins)
}

func TestManager_HandleUnauthorized(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("renews when the rejected token is current", func(t *testing.T) {
		t.Parallel()

		strategy := &fakeStrategy{}
		manager := newTestManager(strategy, okapi.NewMemoryCache(10), nil, nil, "http://unused")

		first, err := manager.EnsureFresh(ctx)
		require.NoError(t, err)

		replacement, err := manager.HandleUnauthorized(ctx, first.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "token-2", replacement.AccessToken)
		assert.Equal(t, 2, strategy.logins)
	})

	t.Run("skips renewal when another caller already renewed", func(t *testing.T) {
		t.Parallel()

		strategy := &fakeStrategy{}
		manager := newTestManager(strategy, okapi.NewMemoryCache(10), nil, nil, "http://unused")

		_, err := manager.EnsureFresh(ctx)
		require.NoError(t, err)

		replacement, err := manager.HandleUnauthorized(ctx, "some-older-token")
		require.NoError(t, err)
		assert.Equal(t, "token-1", replacement.AccessToken)
		assert.Equal(t, 1, strategy.logins)
	})

	t.Run("surfaces renewal failure", func(t *testing.T) {
		t.Parallel()

		strategy := &fakeStrategy{err: errors.New("login refused")}
		manager := newTestManager(strategy, okapi.NewMemoryCache(10), nil, nil, "http://unused")

		_, err := manager.HandleUnauthorized(ctx, "stale")
		require.True(t, okapi.IsAuthentication(err))
	})
}

func TestCacheTokenStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("zero ttl is a no-op", func(t *testing.T) {
		t.Parallel()

		session := okapi.NewMemoryCache(10)
		store := auth.NewCacheTokenStore(session, nil, "diku")

		token := &auth.Token{AccessToken: "t", ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, store.Save(ctx, okapi.TokenScopeSession, token, 0))

		loaded, err := store.Load(ctx, okapi.TokenScopeSession)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("round trip preserves the token", func(t *testing.T) {
		t.Parallel()

		session := okapi.NewMemoryCache(10)
		store := auth.NewCacheTokenStore(session, nil, "diku")

		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		token := &auth.Token{AccessToken: "t", ExpiresAt: expiry}
		require.NoError(t, store.Save(ctx, okapi.TokenScopeSession, token, time.Hour))

		loaded, err := store.Load(ctx, okapi.TokenScopeSession)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "t", loaded.AccessToken)
		assert.True(t, expiry.Equal(loaded.ExpiresAt))
		assert.Equal(t, okapi.TokenScopeSession, loaded.Scope)
	})

	t.Run("global scope disabled without a backend", func(t *testing.T) {
		t.Parallel()

		store := auth.NewCacheTokenStore(okapi.NewMemoryCache(10), nil, "diku")
		assert.False(t, store.GlobalEnabled())

		loaded, err := store.Load(ctx, okapi.TokenScopeGlobal)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})
}
