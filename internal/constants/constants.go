package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits for the transport layer (network-level failures only;
// the single authentication retry is handled above the transport).
const (
	// DefaultRetryMax is the default maximum number of transport retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Token lifecycle.
const (
	// LegacyTokenCacheTTL is the fixed cache lifetime for legacy tokens,
	// which carry no self-reported expiry.
	LegacyTokenCacheTTL = 10 * time.Minute

	// TokenExpirationBuffer is the buffer time before token expiration
	// within which a rotating token is already considered stale.
	TokenExpirationBuffer = 30 * time.Second
)

// Pagination.
const (
	// DefaultPageSize is the default limit for paginated list requests.
	DefaultPageSize = 1000

	// ProbePageSize is the limit used for cheap validation probes.
	ProbePageSize = 1
)

// Cache sizing and lifetimes.
const (
	// DefaultCacheSize is the default item limit for the memory cache.
	DefaultCacheSize = 1000

	// LookupCacheTTL is the lifetime for derived lookup maps (locations,
	// address types). These are effectively cached until process restart
	// or explicit invalidation.
	LookupCacheTTL = 365 * 24 * time.Hour

	// ModuleVersionCacheTTL is the lifetime for module version probes.
	ModuleVersionCacheTTL = 1 * time.Hour

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024
)

// Okapi gateway headers.
const (
	// HeaderTenant carries the tenant identifier on every request.
	HeaderTenant = "X-Okapi-Tenant"

	// HeaderToken carries the session token on authenticated requests.
	HeaderToken = "X-Okapi-Token"

	// HeaderRequestID carries a per-request correlation identifier.
	HeaderRequestID = "X-Okapi-Request-Id"
)

// Authentication endpoints and artifacts.
const (
	// LegacyLoginPath is the credential-exchange endpoint for the legacy
	// protocol; the token is returned in the HeaderToken response header.
	LegacyLoginPath = "/authn/login"

	// RotatingLoginPath is the credential-exchange endpoint for the
	// rotating protocol; the token is returned in AccessTokenCookie.
	RotatingLoginPath = "/authn/login-with-expiry"

	// AccessTokenCookie is the cookie carrying the rotating access token
	// and its declared expiry.
	AccessTokenCookie = "folioAccessToken"
)

// Output format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for tabular output format.
	FormatTable = "table"
)
