// Package client implements the okapi.Client interface: session
// bootstrap, the resource clients, and their shared page-fetch plumbing.
package client

import (
	"context"
	"time"

	"github.com/openfolio-io/okapi-client/internal/auth"
	"github.com/openfolio-io/okapi-client/internal/constants"
	"github.com/openfolio-io/okapi-client/internal/http"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// Client implements the okapi.Client interface.
type Client struct {
	httpClient *http.Client
	sessions   *auth.Manager
	baseURL    string
	tenant     string
	logger     okapi.Logger

	// Resource clients
	users       okapi.UsersClient
	inventory   okapi.InventoryClient
	circulation okapi.CirculationClient
	locations   okapi.LocationsClient
	modules     okapi.ModulesClient
}

// New creates a gateway client for one tenant. No network call is made
// until the first request; the initial credential exchange happens
// lazily (or from a cached token when one is found).
func New(ctx context.Context, config *okapi.Config) (*Client, error) {
	if config == nil {
		return nil, okapi.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, okapi.ErrBaseURLRequired
	}

	if config.Tenant == "" {
		return nil, okapi.ErrTenantRequired
	}

	if config.Username == "" || config.Password == "" {
		return nil, okapi.ErrCredentialsRequired
	}

	sessionCache, err := buildSessionCache(config)
	if err != nil {
		return nil, err
	}

	timeout := config.HTTPTimeout
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}

	retryMax, retryWaitMin, retryWaitMax := retryPolicy(config)

	// The auth layer uses its own transport so that login and probe
	// requests never pick up the session token headers.
	authHTTP := http.NewRetryingHTTPClient(timeout, retryMax, retryWaitMin, retryWaitMax)

	strategy := auth.NewStrategy(config.AuthProtocol, config.BaseURL, auth.Credentials{
		Tenant:   config.Tenant,
		Username: config.Username,
		Password: config.Password,
	}, authHTTP)

	store := auth.NewCacheTokenStore(sessionCache, config.GlobalCache, config.Tenant)
	sessions := auth.NewManager(strategy, store, authHTTP, config.BaseURL, config.Tenant, config.Logger)

	httpClient := http.NewClient(config.BaseURL, config.Tenant, sessions, httpOptions(config)...)

	client := &Client{
		httpClient: httpClient,
		sessions:   sessions,
		baseURL:    config.BaseURL,
		tenant:     config.Tenant,
		logger:     config.Logger,
	}

	client.initializeResourceClients(sessionCache)

	return client, nil
}

// buildSessionCache returns the configured session cache, constructing
// one from CacheConfig (or the defaults) when none is supplied.
func buildSessionCache(config *okapi.Config) (okapi.Cache, error) {
	if config.SessionCache != nil {
		return config.SessionCache, nil
	}

	cacheConfig := config.CacheConfig
	if cacheConfig == nil {
		cacheConfig = okapi.DefaultCacheConfig()
	}

	return okapi.NewCacheFromConfig(cacheConfig)
}

func retryPolicy(config *okapi.Config) (int, time.Duration, time.Duration) {
	retryMax := config.RetryMax
	if retryMax <= 0 {
		retryMax = constants.DefaultRetryMax
	}

	retryWaitMin := config.RetryWaitMin
	if retryWaitMin <= 0 {
		retryWaitMin = constants.DefaultRetryWaitMin
	}

	retryWaitMax := config.RetryWaitMax
	if retryWaitMax <= 0 {
		retryWaitMax = constants.DefaultRetryWaitMax
	}

	return retryMax, retryWaitMin, retryWaitMax
}

// httpOptions builds executor options from config.
func httpOptions(config *okapi.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryMax, retryWaitMin, retryWaitMax := retryPolicy(config)
		httpOpts = append(httpOpts, http.WithRetryConfig(retryMax, retryWaitMin, retryWaitMax))
	}

	chain := okapi.NewInterceptorChain()
	chain.AddRequestInterceptor(okapi.RequestIDInterceptor())

	if config.Logger != nil && config.Debug {
		chain.AddRequestInterceptor(okapi.LoggingInterceptor(config.Logger))
		chain.AddResponseInterceptor(okapi.LoggingResponseInterceptor(config.Logger))
	}

	httpOpts = append(httpOpts, http.WithInterceptors(chain))

	return httpOpts
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients(sessionCache okapi.Cache) {
	c.users = NewUsersClient(c.httpClient)
	c.inventory = NewInventoryClient(c.httpClient)
	c.circulation = NewCirculationClient(c.httpClient)
	c.locations = NewLocationsClient(c.httpClient, sessionCache, c.tenant)
	c.modules = NewModulesClient(c.httpClient, sessionCache, c.tenant)
}

// Users implements okapi.Client.Users.
func (c *Client) Users() okapi.UsersClient {
	return c.users
}

// Inventory implements okapi.Client.Inventory.
func (c *Client) Inventory() okapi.InventoryClient {
	return c.inventory
}

// Circulation implements okapi.Client.Circulation.
func (c *Client) Circulation() okapi.CirculationClient {
	return c.circulation
}

// Locations implements okapi.Client.Locations.
func (c *Client) Locations() okapi.LocationsClient {
	return c.locations
}

// Modules implements okapi.Client.Modules.
func (c *Client) Modules() okapi.ModulesClient {
	return c.modules
}

// CurrentToken implements okapi.Client.CurrentToken.
func (c *Client) CurrentToken(ctx context.Context) (string, error) {
	token, err := c.sessions.Validate(ctx)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}
