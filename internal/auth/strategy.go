package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openfolio-io/okapi-client/internal/constants"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// HTTPDoer executes a single HTTP request. Network-level retry and
// backoff are its responsibility, not this package's.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials is the immutable credential part of a tenant context.
type Credentials struct {
	Tenant   string
	Username string
	Password string
}

// Strategy is one authentication protocol: it exchanges credentials for
// a normalized (token, expiration) pair. The two variants are mutually
// exclusive and selected once at construction.
type Strategy interface {
	// Login performs the credential exchange. A missing credential
	// artifact in an otherwise-successful response is a protocol
	// violation reported as *okapi.AuthProtocolError.
	Login(ctx context.Context) (*Token, error)

	// Protocol identifies the variant.
	Protocol() okapi.AuthProtocol

	// CacheTTL computes how long a freshly-issued token may be cached.
	// Zero means "do not cache"; the result is never negative.
	CacheTTL(token *Token) time.Duration
}

// NewStrategy selects the strategy for a protocol. An empty protocol
// means legacy.
func NewStrategy(protocol okapi.AuthProtocol, baseURL string, creds Credentials, httpClient HTTPDoer) Strategy {
	if protocol == okapi.AuthProtocolRotating {
		return &RotatingStrategy{baseURL: baseURL, creds: creds, httpClient: httpClient}
	}

	return &LegacyStrategy{baseURL: baseURL, creds: creds, httpClient: httpClient}
}

type loginRequest struct {
	Tenant   string `json:"tenant"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func postCredentials(ctx context.Context, httpClient HTTPDoer, baseURL, path string, creds Credentials) (*http.Response, []byte, error) {
	body, err := json.Marshal(loginRequest{
		Tenant:   creds.Tenant,
		Username: creds.Username,
		Password: creds.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("encoding credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("creating login request: %w", err)
	}

	req.Header.Set(constants.HeaderTenant, creds.Tenant)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("posting credentials: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading login response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, nil, &okapi.UpstreamDataError{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    okapi.UpstreamMessage(respBody),
		}
	}

	return resp, respBody, nil
}

// LegacyStrategy implements the header-token protocol: the credential
// POST answers with the token in the X-Okapi-Token response header and
// no expiry, so the token effectively requires re-validation on every
// use.
type LegacyStrategy struct {
	baseURL    string
	creds      Credentials
	httpClient HTTPDoer
}

// Protocol implements Strategy.
func (s *LegacyStrategy) Protocol() okapi.AuthProtocol {
	return okapi.AuthProtocolLegacy
}

// Login implements Strategy.
func (s *LegacyStrategy) Login(ctx context.Context) (*Token, error) {
	resp, _, err := postCredentials(ctx, s.httpClient, s.baseURL, constants.LegacyLoginPath, s.creds)
	if err != nil {
		return nil, err
	}

	token := resp.Header.Get(constants.HeaderToken)
	if token == "" {
		return nil, &okapi.AuthProtocolError{
			Endpoint: constants.LegacyLoginPath,
			Artifact: constants.HeaderToken + " header",
		}
	}

	// The protocol reports no expiry; "now" forces probe-based
	// validation before reuse.
	return &Token{
		AccessToken: token,
		ExpiresAt:   time.Now(),
	}, nil
}

// CacheTTL implements Strategy: legacy tokens are cached for a short
// fixed duration.
func (s *LegacyStrategy) CacheTTL(token *Token) time.Duration {
	return constants.LegacyTokenCacheTTL
}

// RotatingStrategy implements the cookie-token protocol: the credential
// POST goes to a distinct endpoint and answers with a cookie carrying
// the token and its authoritative expiry.
type RotatingStrategy struct {
	baseURL    string
	creds      Credentials
	httpClient HTTPDoer
}

// Protocol implements Strategy.
func (s *RotatingStrategy) Protocol() okapi.AuthProtocol {
	return okapi.AuthProtocolRotating
}

// Login implements Strategy.
func (s *RotatingStrategy) Login(ctx context.Context) (*Token, error) {
	resp, body, err := postCredentials(ctx, s.httpClient, s.baseURL, constants.RotatingLoginPath, s.creds)
	if err != nil {
		return nil, err
	}

	var cookie *http.Cookie

	for _, candidate := range resp.Cookies() {
		if candidate.Name == constants.AccessTokenCookie {
			cookie = candidate

			break
		}
	}

	if cookie == nil || cookie.Value == "" {
		return nil, &okapi.AuthProtocolError{
			Endpoint: constants.RotatingLoginPath,
			Artifact: constants.AccessTokenCookie + " cookie",
		}
	}

	expiresAt := cookie.Expires
	if expiresAt.IsZero() {
		expiresAt = expiryFromBody(body)
	}

	// A rotating token without an expiry can never be reused or cached.
	if expiresAt.IsZero() {
		return nil, &okapi.AuthProtocolError{
			Endpoint: constants.RotatingLoginPath,
			Artifact: "token expiry",
		}
	}

	return &Token{
		AccessToken: cookie.Value,
		ExpiresAt:   expiresAt,
	}, nil
}

// expiryFromBody falls back to the expiration reported in the response
// document when the cookie carries no Expires attribute.
func expiryFromBody(body []byte) time.Time {
	var doc struct {
		AccessTokenExpiration time.Time `json:"accessTokenExpiration"`
	}

	err := json.Unmarshal(body, &doc)
	if err != nil {
		return time.Time{}
	}

	return doc.AccessTokenExpiration
}

// CacheTTL implements Strategy: the exact remaining lifetime, floored at
// zero (meaning "do not cache").
func (s *RotatingStrategy) CacheTTL(token *Token) time.Duration {
	ttl := time.Until(token.ExpiresAt)
	if ttl < 0 {
		return 0
	}

	return ttl
}
