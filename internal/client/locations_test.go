package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openfolio-io/okapi-client/internal/client"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocationsServer(t *testing.T, fetches *int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/locations":
			*fetches++

			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"locations": []map[string]interface{}{
					{"id": "loc1", "name": "Main Stacks", "code": "MAIN", "isActive": true},
					{"id": "loc2", "name": "Annex", "code": "ANNEX", "isActive": false},
				},
				"totalRecords": 2,
			})
		case "/addresstypes":
			*fetches++

			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"addressTypes": []map[string]interface{}{
					{"id": "at1", "addressType": "Home"},
				},
				"totalRecords": 1,
			})
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestLocationsClient(t *testing.T) {
	t.Parallel()

	t.Run("builds and caches the lookup map", func(t *testing.T) {
		t.Parallel()

		fetches := 0
		server := newLocationsServer(t, &fetches)

		defer server.Close()

		cache := okapi.NewMemoryCache(10)
		locations := client.NewLocationsClient(newTestHTTPClient(server.URL), cache, "diku")

		byID, err := locations.All(context.Background())
		require.NoError(t, err)
		require.Len(t, byID, 2)
		assert.Equal(t, "Main Stacks", byID["loc1"].Name)
		assert.Equal(t, 1, fetches)

		// Second call is served from the cache.
		byID, err = locations.All(context.Background())
		require.NoError(t, err)
		assert.Len(t, byID, 2)
		assert.Equal(t, 1, fetches)
	})

	t.Run("address types cached independently", func(t *testing.T) {
		t.Parallel()

		fetches := 0
		server := newLocationsServer(t, &fetches)

		defer server.Close()

		cache := okapi.NewMemoryCache(10)
		locations := client.NewLocationsClient(newTestHTTPClient(server.URL), cache, "diku")

		byID, err := locations.AddressTypes(context.Background())
		require.NoError(t, err)
		require.Len(t, byID, 1)
		assert.Equal(t, "Home", byID["at1"].AddressType)

		_, err = locations.AddressTypes(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, fetches)
	})

	t.Run("invalidate forces a refetch", func(t *testing.T) {
		t.Parallel()

		fetches := 0
		server := newLocationsServer(t, &fetches)

		defer server.Close()

		cache := okapi.NewMemoryCache(10)
		locations := client.NewLocationsClient(newTestHTTPClient(server.URL), cache, "diku")

		_, err := locations.All(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, fetches)

		require.NoError(t, locations.Invalidate(context.Background()))

		_, err = locations.All(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, fetches)
	})

	t.Run("works without a cache", func(t *testing.T) {
		t.Parallel()

		fetches := 0
		server := newLocationsServer(t, &fetches)

		defer server.Close()

		locations := client.NewLocationsClient(newTestHTTPClient(server.URL), nil, "diku")

		_, err := locations.All(context.Background())
		require.NoError(t, err)

		_, err = locations.All(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, fetches)

		require.NoError(t, locations.Invalidate(context.Background()))
	})
}
