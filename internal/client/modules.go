package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openfolio-io/okapi-client/internal/constants"
	"github.com/openfolio-io/okapi-client/internal/http"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// ModulesClient implements okapi.ModulesClient by querying the gateway's
// proxy endpoint for the modules enabled for the tenant.
type ModulesClient struct {
	httpClient *http.Client
	cache      okapi.Cache
	keys       okapi.CacheKeys
	tenant     string
}

// NewModulesClient creates a new modules client.
func NewModulesClient(httpClient *http.Client, cache okapi.Cache, tenant string) *ModulesClient {
	return &ModulesClient{
		httpClient: httpClient,
		cache:      cache,
		keys:       okapi.NewCacheKeys(tenant),
		tenant:     tenant,
	}
}

// Version implements okapi.ModulesClient.Version: it resolves the
// deployed version of the module whose identifier starts with
// modulePrefix (e.g. "mod-circulation"). Only successful lookups are
// cached, so a module enabled later is picked up on the next call.
func (c *ModulesClient) Version(ctx context.Context, modulePrefix string) (string, error) {
	key := c.keys.ModuleVersion(modulePrefix)

	if c.cache != nil {
		entry, err := c.cache.Get(ctx, key)
		if err == nil {
			return string(entry.Data), nil
		}
	}

	path := "/_/proxy/tenants/" + c.tenant + "/modules"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return "", fmt.Errorf("listing tenant modules: %w", err)
	}

	var modules []okapi.ModuleDescriptor

	err = json.Unmarshal(resp.Body, &modules)
	if err != nil {
		return "", &okapi.UpstreamDataError{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    err.Error(),
		}
	}

	version := matchModuleVersion(modules, modulePrefix)
	if version == "" {
		return "", fmt.Errorf("%w: %s", okapi.ErrModuleNotDeployed, modulePrefix)
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, key, &okapi.CacheEntry{
			Data:      []byte(version),
			ExpiresAt: time.Now().Add(constants.ModuleVersionCacheTTL),
		})
	}

	return version, nil
}

// matchModuleVersion finds the version suffix of the first module whose
// identifier is modulePrefix followed by a numeric version. Module
// identifiers look like "mod-circulation-24.0.11"; requiring a leading
// digit keeps "mod-circulation" from matching "mod-circulation-storage".
func matchModuleVersion(modules []okapi.ModuleDescriptor, modulePrefix string) string {
	for _, module := range modules {
		if !strings.HasPrefix(module.ID, modulePrefix+"-") {
			continue
		}

		version := strings.TrimPrefix(module.ID, modulePrefix+"-")
		if version != "" && version[0] >= '0' && version[0] <= '9' {
			return version
		}
	}

	return ""
}
