package okapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

// AuthProtocolError reports an expected credential artifact missing from
// an otherwise-successful authentication response. It is fatal to the
// call in progress and never retried.
type AuthProtocolError struct {
	Endpoint string
	Artifact string
}

// Error implements the error interface.
func (e *AuthProtocolError) Error() string {
	return fmt.Sprintf("auth protocol violation: %s missing from %s response", e.Artifact, e.Endpoint)
}

// AuthenticationError reports a failed renewal attempt. No token is
// persisted when it occurs.
type AuthenticationError struct {
	Tenant string
	Err    error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed for tenant %q: %v", e.Tenant, e.Err)
	}

	return fmt.Sprintf("authentication failed for tenant %q", e.Tenant)
}

// Unwrap returns the underlying cause.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// UpstreamDataError reports a malformed or error-bearing response body
// from a data endpoint. Message carries the upstream error message when
// one was recognized.
type UpstreamDataError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

// Error implements the error interface.
func (e *UpstreamDataError) Error() string {
	return fmt.Sprintf("upstream error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
}

// NotFoundError reports a lookup by identifier that yielded zero matches
// where exactly one was expected. It is a legitimate "no such record"
// outcome, distinct from UpstreamDataError.
type NotFoundError struct {
	Resource   string
	Identifier string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Identifier)
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrBaseURLRequired     = errors.New("base URL is required")
	ErrTenantRequired      = errors.New("tenant is required")
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrNoMoreRecords       = errors.New("no more records")
	ErrCacheDisabled       = errors.New("cache disabled")
	ErrCacheKeyNotFound    = errors.New("key not found")
	ErrCacheEntryExpired   = errors.New("entry expired")
	ErrCacheValueTooLarge  = errors.New("cache value exceeds maximum size")
	ErrModuleNotDeployed   = errors.New("module not deployed for tenant")
)

// IsAuthProtocol checks if the error is an authentication protocol
// violation.
func IsAuthProtocol(err error) bool {
	target := &AuthProtocolError{}

	return errors.As(err, &target)
}

// IsAuthentication checks if the error is an authentication failure.
func IsAuthentication(err error) bool {
	target := &AuthenticationError{}

	return errors.As(err, &target)
}

// IsUpstreamData checks if the error is an upstream data error.
func IsUpstreamData(err error) bool {
	target := &UpstreamDataError{}

	return errors.As(err, &target)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	target := &NotFoundError{}

	return errors.As(err, &target)
}

// ErrorDetail is one error object in a gateway error response body.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorResponse is the structured error body returned by gateway modules.
type ErrorResponse struct {
	Errors []ErrorDetail `json:"errors"`
}

// UpstreamMessage extracts a human-readable error message from a
// response body. Modules answer with either a structured error document
// or plain text; a generic parse-failure message is the fallback.
func UpstreamMessage(body []byte) string {
	if len(body) == 0 {
		return "no response body"
	}

	var errResp ErrorResponse

	err := json.Unmarshal(body, &errResp)
	if err == nil && len(errResp.Errors) > 0 && errResp.Errors[0].Message != "" {
		return errResp.Errors[0].Message
	}

	// Some modules answer with a bare {"message": ...} document.
	var single struct {
		Message string `json:"message"`
	}

	err = json.Unmarshal(body, &single)
	if err == nil && single.Message != "" {
		return single.Message
	}

	return string(body)
}
