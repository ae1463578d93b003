package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openfolio-io/okapi-client/internal/constants"
	"github.com/openfolio-io/okapi-client/internal/http"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// Lookup endpoints.
const (
	LocationsPath    = "/locations"
	AddressTypesPath = "/addresstypes"
)

// LocationsClient implements okapi.LocationsClient. The derived lookup
// maps are small and effectively static, so they are cached with a
// practically-infinite TTL and refreshed only on Invalidate or process
// restart.
type LocationsClient struct {
	httpClient *http.Client
	locations  *pageClient[okapi.Location]
	addresses  *pageClient[okapi.AddressType]
	cache      okapi.Cache
	keys       okapi.CacheKeys
}

// NewLocationsClient creates a new locations client.
func NewLocationsClient(httpClient *http.Client, cache okapi.Cache, tenant string) *LocationsClient {
	return &LocationsClient{
		httpClient: httpClient,
		locations:  newPageClient[okapi.Location](httpClient, okapi.RecordKeyLocations),
		addresses:  newPageClient[okapi.AddressType](httpClient, okapi.RecordKeyAddressTypes),
		cache:      cache,
		keys:       okapi.NewCacheKeys(tenant),
	}
}

// All implements okapi.LocationsClient.All.
func (c *LocationsClient) All(ctx context.Context) (map[string]okapi.Location, error) {
	cached := loadLookup[okapi.Location](ctx, c.cache, c.keys.Locations())
	if cached != nil {
		return cached, nil
	}

	cursor := okapi.NewRecordCursor(ctx, c.locations, LocationsPath, okapi.NewQuery())

	byID := make(map[string]okapi.Location)

	err := cursor.ForEach(func(location okapi.Location) error {
		byID[location.ID] = location

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}

	storeLookup(ctx, c.cache, c.keys.Locations(), byID)

	return byID, nil
}

// AddressTypes implements okapi.LocationsClient.AddressTypes.
func (c *LocationsClient) AddressTypes(ctx context.Context) (map[string]okapi.AddressType, error) {
	cached := loadLookup[okapi.AddressType](ctx, c.cache, c.keys.AddressTypes())
	if cached != nil {
		return cached, nil
	}

	cursor := okapi.NewRecordCursor(ctx, c.addresses, AddressTypesPath, okapi.NewQuery())

	byID := make(map[string]okapi.AddressType)

	err := cursor.ForEach(func(addressType okapi.AddressType) error {
		byID[addressType.ID] = addressType

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing address types: %w", err)
	}

	storeLookup(ctx, c.cache, c.keys.AddressTypes(), byID)

	return byID, nil
}

// Invalidate implements okapi.LocationsClient.Invalidate.
func (c *LocationsClient) Invalidate(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}

	err := c.cache.Delete(ctx, c.keys.Locations())
	if err != nil {
		return fmt.Errorf("invalidating location lookup: %w", err)
	}

	err = c.cache.Delete(ctx, c.keys.AddressTypes())
	if err != nil {
		return fmt.Errorf("invalidating address-type lookup: %w", err)
	}

	return nil
}

// loadLookup returns the cached lookup map, or nil on any miss. An
// unreadable entry is treated as a miss and rebuilt.
func loadLookup[T any](ctx context.Context, cache okapi.Cache, key string) map[string]T {
	if cache == nil {
		return nil
	}

	entry, err := cache.Get(ctx, key)
	if err != nil {
		return nil
	}

	var lookup map[string]T

	err = json.Unmarshal(entry.Data, &lookup)
	if err != nil {
		return nil
	}

	return lookup
}

// storeLookup caches a lookup map. Failures are ignored; the map is
// rebuilt on the next call.
func storeLookup[T any](ctx context.Context, cache okapi.Cache, key string, lookup map[string]T) {
	if cache == nil {
		return
	}

	data, err := json.Marshal(lookup)
	if err != nil {
		return
	}

	_ = cache.Set(ctx, key, &okapi.CacheEntry{
		Data:      data,
		ExpiresAt: time.Now().Add(constants.LookupCacheTTL),
	})
}
