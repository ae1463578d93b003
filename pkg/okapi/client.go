package okapi

import (
	"context"
	"time"
)

// AuthProtocol selects the authentication flow used against the gateway.
type AuthProtocol string

const (
	// AuthProtocolLegacy exchanges credentials for a token carried in the
	// X-Okapi-Token response header. Legacy tokens have no self-reported
	// expiry and are re-validated with a cheap probe request.
	AuthProtocolLegacy AuthProtocol = "legacy"

	// AuthProtocolRotating exchanges credentials at the login-with-expiry
	// endpoint for a token carried in a response cookie together with its
	// declared expiry.
	AuthProtocolRotating AuthProtocol = "rotating"
)

// TokenScope identifies where a cached token is shared.
type TokenScope string

const (
	// TokenScopeSession is the per-session cache scope.
	TokenScopeSession TokenScope = "session"

	// TokenScopeGlobal is the cross-process cache scope.
	TokenScopeGlobal TokenScope = "global"
)

// UsersClient provides access to user records.
type UsersClient interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByBarcode(ctx context.Context, barcode string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Search(ctx context.Context, query *Query) *RecordCursor[User]
}

// InventoryClient provides access to bibliographic inventory records.
type InventoryClient interface {
	GetInstance(ctx context.Context, id string) (*Instance, error)
	GetInstanceByHRID(ctx context.Context, hrid string) (*Instance, error)
	Holdings(ctx context.Context, instanceID string) *RecordCursor[Holding]
	Items(ctx context.Context, holdingsRecordID string) *RecordCursor[Item]
}

// CirculationClient provides access to loans, hold requests, and
// fee/fine accounts.
type CirculationClient interface {
	OpenLoans(ctx context.Context, userID string) *RecordCursor[Loan]
	Requests(ctx context.Context, userID string) *RecordCursor[HoldRequest]
	Accounts(ctx context.Context, userID string) *RecordCursor[Account]
	RenewLoan(ctx context.Context, userID, itemID string) (*Loan, error)
}

// LocationsClient provides cached lookup maps derived from list
// endpoints. The maps are cached without a TTL and survive until process
// restart or an explicit Invalidate call.
type LocationsClient interface {
	All(ctx context.Context) (map[string]Location, error)
	AddressTypes(ctx context.Context) (map[string]AddressType, error)
	Invalidate(ctx context.Context) error
}

// ModulesClient resolves deployed gateway module versions. Only
// successful (non-empty) lookups are cached.
type ModulesClient interface {
	Version(ctx context.Context, modulePrefix string) (string, error)
}

// Client is the top-level interface for a tenant-scoped gateway session.
type Client interface {
	Users() UsersClient
	Inventory() InventoryClient
	Circulation() CirculationClient
	Locations() LocationsClient
	Modules() ModulesClient

	// CurrentToken returns a fresh session token, renewing if required.
	CurrentToken(ctx context.Context) (string, error)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building an okapi.Client.
//
// # Tenant context
//
// BaseURL, Tenant, Username, and Password form the immutable tenant
// context of a client instance. The tenant identifier is attached to
// every outgoing request and namespaces all cache keys, so multiple
// tenant sessions may safely share one physical cache backend.
//
// # Authentication protocol
//
// AuthProtocol selects the login flow once at construction; it is never
// branched on downstream. An empty value means AuthProtocolLegacy.
//
// # Caching
//
// SessionCache holds the per-session copy of the token and the derived
// lookup maps. If nil, a memory cache is built from CacheConfig (or the
// defaults). GlobalCache, when set, additionally shares renewed tokens
// across process instances; concurrent renewals race and the last write
// wins.
type Config struct {
	// BaseURL: base URL of the gateway (e.g. "https://okapi.example.edu").
	// folioclient.New normalizes this value by trimming a trailing slash
	// and adding "https://" if no scheme is present.
	BaseURL string

	// Tenant: tenant identifier, required on every call.
	Tenant string

	// Username: service account username for the credential exchange.
	Username string
	// Password: service account password. Never logged in full.
	Password string

	// AuthProtocol: login flow selector. Empty means legacy.
	AuthProtocol AuthProtocol

	// SessionCache: cache backend for the session-scoped token copy and
	// derived lookups. Built from CacheConfig when nil.
	SessionCache Cache
	// GlobalCache: optional cross-process cache backend for tokens.
	GlobalCache Cache
	// CacheConfig: used to build SessionCache when none is supplied.
	CacheConfig *CacheConfig

	// HTTPTimeout: optional default HTTP timeout. Most calls should rely
	// on context timeouts instead.
	HTTPTimeout time.Duration
	// RetryMax: maximum transport-level retries (>=500, 429, connection
	// errors). If 0, a sensible default is used.
	RetryMax int
	// RetryWaitMin: minimum backoff between transport retries.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between transport retries.
	RetryWaitMax time.Duration

	// Debug: enables verbose HTTP request/response logging when a Logger
	// is provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string
}
