// Package folioclient provides the main entry point for creating FOLIO
// gateway API clients.
package folioclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/openfolio-io/okapi-client/internal/client"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// New creates a new gateway client for one tenant session.
func New(ctx context.Context, config *okapi.Config) (okapi.Client, error) {
	if config == nil {
		return nil, okapi.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, okapi.ErrBaseURLRequired
	}

	// Normalize the base URL
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	config.BaseURL = baseURL

	gatewayClient, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return gatewayClient, nil
}

// NewWithPassword creates a new client using the legacy authentication
// protocol.
func NewWithPassword(ctx context.Context, baseURL, tenant, username, password string) (okapi.Client, error) {
	return New(ctx, &okapi.Config{
		BaseURL:  baseURL,
		Tenant:   tenant,
		Username: username,
		Password: password,
	})
}

// NewWithRotatingTokens creates a new client using the rotating-token
// authentication protocol.
func NewWithRotatingTokens(ctx context.Context, baseURL, tenant, username, password string) (okapi.Client, error) {
	return New(ctx, &okapi.Config{
		BaseURL:      baseURL,
		Tenant:       tenant,
		Username:     username,
		Password:     password,
		AuthProtocol: okapi.AuthProtocolRotating,
	})
}
