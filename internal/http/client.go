// Package http implements the resilient HTTP executor used by all
// resource clients: gateway headers, network-level retry with backoff,
// and a single transparent re-authentication on token rejection.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/openfolio-io/okapi-client/internal/auth"
	"github.com/openfolio-io/okapi-client/internal/constants"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// SessionManager supplies and refreshes the session token attached to
// outgoing requests.
type SessionManager interface {
	// Validate returns a token confirmed usable for the protocol in
	// effect, renewing when necessary.
	Validate(ctx context.Context) (*auth.Token, error)

	// HandleUnauthorized reacts to a token rejection, returning a
	// replacement token. staleToken is the value that was rejected.
	HandleUnauthorized(ctx context.Context, staleToken string) (*auth.Token, error)
}

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}

	// AllowedStatuses lists non-2xx statuses the caller handles itself
	// instead of receiving an error.
	AllowedStatuses []int
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes API requests against one gateway tenant.
type Client struct {
	baseURL      string
	tenant       string
	sessions     SessionManager
	httpClient   *http.Client
	logger       okapi.Logger
	interceptors *okapi.InterceptorChain
	userAgent    string
	debug        bool
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	logger       okapi.Logger
	interceptors *okapi.InterceptorChain
	userAgent    string
	debug        bool
	timeout      time.Duration
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

// WithLogger sets the logger.
func WithLogger(logger okapi.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithDebug enables per-request debug logging.
func WithDebug(debug bool) Option {
	return func(c *clientConfig) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig overrides the network retry policy.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *clientConfig) {
		c.retryMax = retryMax
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithHTTPTimeout overrides the per-request timeout.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithInterceptors sets the interceptor chain run around every request.
func WithInterceptors(chain *okapi.InterceptorChain) Option {
	return func(c *clientConfig) {
		c.interceptors = chain
	}
}

// NewClient creates an executor for baseURL and tenant. sessions may be
// nil for unauthenticated use (login endpoints, tests).
func NewClient(baseURL, tenant string, sessions SessionManager, opts ...Option) *Client {
	config := &clientConfig{
		timeout:      constants.DefaultHTTPTimeout,
		retryMax:     constants.DefaultRetryMax,
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
	}

	for _, opt := range opts {
		opt(config)
	}

	return &Client{
		baseURL:      baseURL,
		tenant:       tenant,
		sessions:     sessions,
		httpClient:   NewRetryingHTTPClient(config.timeout, config.retryMax, config.retryWaitMin, config.retryWaitMax),
		logger:       config.logger,
		interceptors: config.interceptors,
		userAgent:    config.userAgent,
		debug:        config.debug,
	}
}

// NewRetryingHTTPClient creates a standard *http.Client whose transport
// retries transient failures (5xx, 429, connection errors) with
// exponential backoff. Token rejections are never retried at this
// layer.
func NewRetryingHTTPClient(timeout time.Duration, retryMax int, waitMin, waitMax time.Duration) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.RetryWaitMin = waitMin
	retryClient.RetryWaitMax = waitMax
	retryClient.Logger = nil
	retryClient.HTTPClient.Timeout = timeout

	return retryClient.StandardClient()
}

// Do executes a request, attaching tenant and token headers, and
// retries exactly once with a renewed token when the gateway rejects
// the attached one.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var tokenValue string

	if c.sessions != nil {
		token, err := c.sessions.Validate(ctx)
		if err != nil {
			return nil, err
		}

		tokenValue = token.AccessToken
	}

	resp, err := c.dispatch(ctx, req, tokenValue)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.sessions != nil {
		token, renewErr := c.sessions.HandleUnauthorized(ctx, tokenValue)
		if renewErr != nil {
			return nil, renewErr
		}

		resp, err = c.dispatch(ctx, req, token.AccessToken)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return resp, &okapi.AuthenticationError{
				Tenant: c.tenant,
				Err: &okapi.UpstreamDataError{
					StatusCode: resp.StatusCode,
					Endpoint:   req.Path,
					Message:    okapi.UpstreamMessage(resp.Body),
				},
			}
		}
	}

	if !c.statusAllowed(req, resp.StatusCode) {
		return resp, &okapi.UpstreamDataError{
			StatusCode: resp.StatusCode,
			Endpoint:   req.Path,
			Message:    okapi.UpstreamMessage(resp.Body),
		}
	}

	return resp, nil
}

func (c *Client) statusAllowed(req *Request, status int) bool {
	if status >= 200 && status < 300 {
		return true
	}

	for _, allowed := range req.AllowedStatuses {
		if status == allowed {
			return true
		}
	}

	return false
}

// dispatch performs one HTTP round trip, including interceptors and
// debug logging. It never inspects the status for auth handling; Do
// owns that.
func (c *Client) dispatch(ctx context.Context, req *Request, tokenValue string) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var (
		bodyBytes  []byte
		bodyReader io.Reader
		err        error
	)

	if req.Body != nil {
		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(constants.HeaderTenant, c.tenant)

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if tokenValue != "" {
		httpReq.Header.Set(constants.HeaderToken, tokenValue)
	}

	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	interceptReq := &okapi.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: httpReq.Header,
		Body:    bodyBytes,
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, interceptReq)
		if err != nil {
			return nil, err
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.interceptors != nil {
			_ = c.interceptors.ExecuteResponseInterceptors(ctx, interceptReq, &okapi.Response{Error: err})
		}

		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": httpResp.StatusCode,
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteResponseInterceptors(ctx, interceptReq, &okapi.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
		})
		if err != nil {
			return nil, err
		}
	}

	return resp, nil
}

// Get executes a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post executes a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put executes a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete executes a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}
