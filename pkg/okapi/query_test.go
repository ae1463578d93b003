package okapi_test

import (
	"testing"

	"github.com/openfolio-io/okapi-client/pkg/okapi"
	"github.com/stretchr/testify/assert"
)

func TestEscapeCQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain value",
			input:    "smith",
			expected: "smith",
		},
		{
			name:     "embedded quotes",
			input:    `He said "hi"`,
			expected: `He said \"hi\"`,
		},
		{
			name:     "ampersand",
			input:    "fish & chips",
			expected: "fish %26 chips",
		},
		{
			name:     "quotes and ampersand together",
			input:    `He said "hi" & left`,
			expected: `He said \"hi\" %26 left`,
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, okapi.EscapeCQL(testCase.input))
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestQuery_ToValues(t *testing.T) {
	t.Parallel()

	t.Run("exact match with sort", func(t *testing.T) {
		t.Parallel()

		query := okapi.NewQuery().
			MatchExact("barcode", "123456").
			WithSortBy("username")

		values := query.ToValues()
		assert.Equal(t, `(barcode=="123456") sortby username`, values.Get("query"))
	})

	t.Run("multiple terms joined with and", func(t *testing.T) {
		t.Parallel()

		query := okapi.NewQuery().
			MatchExact("userId", "abc").
			MatchExact("status.name", "Open")

		values := query.ToValues()
		assert.Equal(t, `(userId=="abc" and status.name=="Open")`, values.Get("query"))
	})

	t.Run("negated term", func(t *testing.T) {
		t.Parallel()

		query := okapi.NewQuery().
			MatchExact("requesterId", "abc").
			MatchNot("status", "Closed - Cancelled")

		values := query.ToValues()
		assert.Equal(t, `(requesterId=="abc" and status<>"Closed - Cancelled")`, values.Get("query"))
	})

	t.Run("sort without filter uses allRecords", func(t *testing.T) {
		t.Parallel()

		query := okapi.NewQuery().WithSortBy("name")

		values := query.ToValues()
		assert.Equal(t, "(cql.allRecords=1) sortby name", values.Get("query"))
	})

	t.Run("values are escaped", func(t *testing.T) {
		t.Parallel()

		query := okapi.NewQuery().MatchExact("lastName", `O"Brien & Sons`)

		values := query.ToValues()
		assert.Equal(t, `(lastName=="O\"Brien %26 Sons")`, values.Get("query"))
	})

	t.Run("offset and limit only when positive", func(t *testing.T) {
		t.Parallel()

		query := okapi.NewQuery()
		values := query.ToValues()
		assert.Empty(t, values.Get("offset"))
		assert.Empty(t, values.Get("limit"))
		assert.Empty(t, values.Get("query"))

		query = query.WithOffset(100).WithLimit(50)
		values = query.ToValues()
		assert.Equal(t, "100", values.Get("offset"))
		assert.Equal(t, "50", values.Get("limit"))
	})

	t.Run("extra parameters merged", func(t *testing.T) {
		t.Parallel()

		query := okapi.NewQuery().WithParam("expandAll", "true")

		values := query.ToValues()
		assert.Equal(t, "true", values.Get("expandAll"))
	})

	t.Run("nil query yields empty values", func(t *testing.T) {
		t.Parallel()

		var query *okapi.Query

		assert.Empty(t, query.ToValues())
	})
}

func TestQuery_Clone(t *testing.T) {
	t.Parallel()

	original := okapi.NewQuery().
		MatchExact("id", "abc").
		WithParam("key", "value").
		WithLimit(10)

	clone := original.Clone().WithOffset(500).WithParam("key", "changed")

	assert.Equal(t, 0, original.Offset)
	assert.Equal(t, "value", original.Extra.Get("key"))
	assert.Equal(t, 500, clone.Offset)
	assert.Equal(t, "changed", clone.Extra.Get("key"))
	assert.Equal(t, original.CQL, clone.CQL)
}
