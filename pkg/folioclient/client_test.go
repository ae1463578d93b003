package folioclient_test

import (
	"context"
	"testing"

	"github.com/openfolio-io/okapi-client/pkg/folioclient"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := folioclient.New(ctx, nil)
	require.ErrorIs(t, err, okapi.ErrConfigRequired)

	_, err = folioclient.New(ctx, &okapi.Config{})
	require.ErrorIs(t, err, okapi.ErrBaseURLRequired)

	_, err = folioclient.NewWithPassword(ctx, "https://okapi.example.edu", "", "u", "p")
	require.ErrorIs(t, err, okapi.ErrTenantRequired)

	_, err = folioclient.NewWithPassword(ctx, "https://okapi.example.edu", "diku", "", "")
	require.ErrorIs(t, err, okapi.ErrCredentialsRequired)
}

func TestNew_NormalizesBaseURL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing slash trimmed",
			input:    "https://okapi.example.edu/",
			expected: "https://okapi.example.edu",
		},
		{
			name:     "scheme added when missing",
			input:    "okapi.example.edu",
			expected: "https://okapi.example.edu",
		},
		{
			name:     "http preserved",
			input:    "http://localhost:9130",
			expected: "http://localhost:9130",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			config := &okapi.Config{
				BaseURL:  testCase.input,
				Tenant:   "diku",
				Username: "u",
				Password: "p",
			}

			_, err := folioclient.New(ctx, config)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, config.BaseURL)
		})
	}
}

func TestNewWithRotatingTokens(t *testing.T) {
	t.Parallel()

	// Construction is lazy; no network call happens until the first
	// request, so a placeholder URL is fine.
	client, err := folioclient.NewWithRotatingTokens(context.Background(), "okapi.example.edu", "diku", "u", "p")
	require.NoError(t, err)
	assert.NotNil(t, client.Users())
	assert.NotNil(t, client.Inventory())
	assert.NotNil(t, client.Circulation())
	assert.NotNil(t, client.Locations())
	assert.NotNil(t, client.Modules())
}
