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

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name     string
		config   *okapi.Config
		expected error
	}{
		{
			name:     "nil config",
			config:   nil,
			expected: okapi.ErrConfigRequired,
		},
		{
			name:     "missing base URL",
			config:   &okapi.Config{Tenant: "diku", Username: "u", Password: "p"},
			expected: okapi.ErrBaseURLRequired,
		},
		{
			name:     "missing tenant",
			config:   &okapi.Config{BaseURL: "https://okapi.example.edu", Username: "u", Password: "p"},
			expected: okapi.ErrTenantRequired,
		},
		{
			name:     "missing credentials",
			config:   &okapi.Config{BaseURL: "https://okapi.example.edu", Tenant: "diku"},
			expected: okapi.ErrCredentialsRequired,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := client.New(ctx, testCase.config)
			require.ErrorIs(t, err, testCase.expected)
		})
	}
}

// TestClient_EndToEnd drives a full session against a fake gateway:
// login, an authenticated lookup, and a transparent re-login after the
// gateway rejects the first token.
//
//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_EndToEnd(t *testing.T) {
	t.Parallel()

	logins := 0

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/authn/login":
			logins++

			assert.Equal(t, "diku", request.Header.Get("X-Okapi-Tenant"))
			writer.Header().Set("X-Okapi-Token", "session-token")
			writer.WriteHeader(http.StatusCreated)

		case "/users":
			if request.Header.Get("X-Okapi-Token") != "session-token" {
				writer.WriteHeader(http.StatusUnauthorized)

				return
			}

			query := request.URL.Query().Get("query")
			if query == `(barcode=="1234567890")` {
				_ = json.NewEncoder(writer).Encode(map[string]interface{}{
					"users":        []map[string]interface{}{{"id": "u1", "username": "alice", "barcode": "1234567890"}},
					"totalRecords": 1,
				})

				return
			}

			// The probe and other list calls get an empty page.
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"users":        []map[string]interface{}{},
				"totalRecords": 0,
			})

		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	ctx := context.Background()

	gateway, err := client.New(ctx, &okapi.Config{
		BaseURL:  server.URL,
		Tenant:   "diku",
		Username: "svc-user",
		Password: "secret",
	})
	require.NoError(t, err)

	token, err := gateway.CurrentToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "session-token", token)
	assert.Equal(t, 1, logins)

	user, err := gateway.Users().GetByBarcode(ctx, "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	// The confirmed session is reused across calls.
	assert.Equal(t, 1, logins)
}
