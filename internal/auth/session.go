package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/openfolio-io/okapi-client/internal/constants"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// tokenState tracks what the manager knows about the held token.
type tokenState int

const (
	// stateUnset means no token has been acquired or loaded yet.
	stateUnset tokenState = iota

	// stateCached means the token came from the cache and has not been
	// confirmed against the gateway.
	stateCached

	// stateValid means the token is known good.
	stateValid

	// stateExpired means the token was rejected or its renewal failed.
	stateExpired
)

// Manager owns the session token for one tenant: it loads cached
// copies, renews through the configured strategy, validates, and reacts
// to authorization rejections. All methods are safe for concurrent use;
// renewal is serialized so concurrent callers share one credential
// exchange.
type Manager struct {
	mu         sync.Mutex
	strategy   Strategy
	store      *CacheTokenStore
	holder     *TokenStore
	httpClient HTTPDoer
	baseURL    string
	tenant     string
	logger     okapi.Logger
	state      tokenState
}

// NewManager creates a session manager. The holder starts empty; the
// first EnsureFresh call consults the cache before renewing.
func NewManager(strategy Strategy, store *CacheTokenStore, httpClient HTTPDoer, baseURL, tenant string, logger okapi.Logger) *Manager {
	return &Manager{
		strategy:   strategy,
		store:      store,
		holder:     NewTokenStore(),
		httpClient: httpClient,
		baseURL:    baseURL,
		tenant:     tenant,
		logger:     logger,
		state:      stateUnset,
	}
}

// Rotating reports whether the manager uses the rotating protocol.
func (m *Manager) Rotating() bool {
	return m.strategy.Protocol() == okapi.AuthProtocolRotating
}

// Current returns the held token, or nil when none has been acquired.
func (m *Manager) Current() *Token {
	return m.holder.Get()
}

// EnsureFresh guarantees the held token passes the validity check,
// loading from the cache on first use and renewing when the check
// fails. It never issues a probe request; use Validate for
// probe-confirmed validity.
func (m *Manager) EnsureFresh(ctx context.Context) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUnset {
		m.loadCachedLocked(ctx)
	}

	token := m.holder.Get()
	if token.Valid() {
		return token, nil
	}

	return m.renewLocked(ctx)
}

// Renew unconditionally performs the credential exchange, replacing the
// held token.
func (m *Manager) Renew(ctx context.Context) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.renewLocked(ctx)
}

// Validate confirms the held token is usable, renewing if it is not.
// Under the rotating protocol the expiration is authoritative, so this
// is EnsureFresh. Under the legacy protocol the expiration is unknown
// and a cached token must be confirmed by a probe request; a rejected
// probe triggers exactly one renewal.
func (m *Manager) Validate(ctx context.Context) (*Token, error) {
	if m.Rotating() {
		return m.EnsureFresh(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateUnset {
		m.loadCachedLocked(ctx)
	}

	token := m.holder.Get()
	if token == nil || token.AccessToken == "" {
		return m.renewLocked(ctx)
	}

	if m.state == stateValid {
		return token, nil
	}

	ok, err := m.probeLocked(ctx, token)
	if err != nil {
		return nil, err
	}

	if ok {
		m.state = stateValid

		return token, nil
	}

	m.state = stateExpired

	return m.renewLocked(ctx)
}

// HandleUnauthorized reacts to an authorization rejection on a request
// carrying staleToken: if the held token already changed (another
// caller renewed), the current token is returned; otherwise one renewal
// is performed. The returned token is nil only alongside an error.
func (m *Manager) HandleUnauthorized(ctx context.Context, staleToken string) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.holder.Get()
	if current != nil && current.AccessToken != "" && current.AccessToken != staleToken {
		return current, nil
	}

	m.state = stateExpired

	return m.renewLocked(ctx)
}

// loadCachedLocked seeds the holder from the session cache, falling
// back to the global cache. Load errors are treated as misses; the
// caller decides whether the loaded token needs renewal or probing.
func (m *Manager) loadCachedLocked(ctx context.Context) {
	token, err := m.store.Load(ctx, okapi.TokenScopeSession)
	if err != nil {
		m.logDebug("discarding unreadable session-scope token", err)

		token = nil
	}

	if token == nil && m.store.GlobalEnabled() {
		token, err = m.store.Load(ctx, okapi.TokenScopeGlobal)
		if err != nil {
			m.logDebug("discarding unreadable global-scope token", err)

			token = nil
		}
	}

	if token == nil {
		m.state = stateUnset

		return
	}

	m.holder.Set(token)
	m.state = stateCached
}

// renewLocked performs the credential exchange and persists the result.
// On failure the held token is cleared and nothing is written to the
// cache.
func (m *Manager) renewLocked(ctx context.Context) (*Token, error) {
	token, err := m.strategy.Login(ctx)
	if err != nil {
		m.holder.Clear()
		m.state = stateExpired

		if okapi.IsAuthProtocol(err) || okapi.IsUpstreamData(err) {
			return nil, err
		}

		return nil, &okapi.AuthenticationError{Tenant: m.tenant, Err: err}
	}

	m.holder.Set(token)
	m.state = stateValid

	ttl := m.strategy.CacheTTL(token)

	err = m.store.Save(ctx, okapi.TokenScopeSession, token, ttl)
	if err != nil {
		m.logDebug("session-scope token cache write failed", err)
	}

	if m.store.GlobalEnabled() {
		err = m.store.Save(ctx, okapi.TokenScopeGlobal, token, ttl)
		if err != nil {
			m.logDebug("global-scope token cache write failed", err)
		}
	}

	return token, nil
}

// probeLocked issues a minimal authenticated request to confirm a token
// of unknown freshness. It reports false on an authorization rejection
// and an error on any other failure.
func (m *Manager) probeLocked(ctx context.Context, token *Token) (bool, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", constants.ProbePageSize))

	probeURL := m.baseURL + "/users?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating probe request: %w", err)
	}

	req.Header.Set(constants.HeaderTenant, m.tenant)
	req.Header.Set(constants.HeaderToken, token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("probing token: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, nil
	default:
		return false, &okapi.UpstreamDataError{
			StatusCode: resp.StatusCode,
			Endpoint:   "/users",
			Message:    "unexpected probe response",
		}
	}
}

func (m *Manager) logDebug(msg string, err error) {
	if m.logger == nil {
		return
	}

	m.logger.Debug(msg, map[string]interface{}{
		"tenant": m.tenant,
		"error":  err.Error(),
	})
}
