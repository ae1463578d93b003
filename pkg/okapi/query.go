package okapi

import (
	"net/url"
	"strconv"
	"strings"
)

// EscapeCQL escapes a string literal for interpolation into a CQL
// expression: double quotes become backslash-escaped quotes and
// ampersands become their percent-encoded form.
func EscapeCQL(value string) string {
	value = strings.ReplaceAll(value, `"`, `\"`)
	value = strings.ReplaceAll(value, "&", "%26")

	return value
}

// Query is a request shape for a paginated list endpoint: a CQL filter
// expression, an optional sort clause, and offset/limit pagination
// parameters. Queries have no persistent identity; construct one fresh
// per traversal.
type Query struct {
	// CQL is the boolean filter expression, without the outer parentheses.
	CQL string

	// SortBy is an optional field name appended as a sortby clause.
	SortBy string

	// Offset is the zero-based record offset.
	Offset int

	// Limit is the page size. Zero means the field is omitted.
	Limit int

	// Extra holds additional query parameters merged verbatim.
	Extra url.Values
}

// NewQuery creates an empty query.
func NewQuery() *Query {
	return &Query{}
}

// MatchExact appends an exact-match term (field=="value") to the filter
// expression, combining with "and" when a filter already exists. The
// value is CQL-escaped.
func (q *Query) MatchExact(field, value string) *Query {
	term := field + `=="` + EscapeCQL(value) + `"`
	if q.CQL == "" {
		q.CQL = term
	} else {
		q.CQL += " and " + term
	}

	return q
}

// MatchNot appends a negated term (field<>"value") to the filter
// expression. The value is CQL-escaped.
func (q *Query) MatchNot(field, value string) *Query {
	term := field + `<>"` + EscapeCQL(value) + `"`
	if q.CQL == "" {
		q.CQL = term
	} else {
		q.CQL += " and " + term
	}

	return q
}

// WithCQL replaces the filter expression with a raw CQL string. The
// caller is responsible for escaping interpolated literals.
func (q *Query) WithCQL(expr string) *Query {
	q.CQL = expr

	return q
}

// WithSortBy sets the sort clause.
func (q *Query) WithSortBy(field string) *Query {
	q.SortBy = field

	return q
}

// WithOffset sets the record offset.
func (q *Query) WithOffset(offset int) *Query {
	q.Offset = offset

	return q
}

// WithLimit sets the page size.
func (q *Query) WithLimit(limit int) *Query {
	q.Limit = limit

	return q
}

// WithParam merges an additional literal query parameter.
func (q *Query) WithParam(key, value string) *Query {
	if q.Extra == nil {
		q.Extra = url.Values{}
	}

	q.Extra.Set(key, value)

	return q
}

// Clone returns an independent copy of the query.
func (q *Query) Clone() *Query {
	if q == nil {
		return NewQuery()
	}

	clone := *q

	if q.Extra != nil {
		clone.Extra = url.Values{}
		for key, values := range q.Extra {
			clone.Extra[key] = append([]string(nil), values...)
		}
	}

	return &clone
}

// ToValues converts the query to URL query parameters. The filter
// expression is parenthesized and the sortby clause appended, matching
// the gateway's query language.
func (q *Query) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	for key, vals := range q.Extra {
		for _, val := range vals {
			values.Add(key, val)
		}
	}

	expr := ""
	if q.CQL != "" {
		expr = "(" + q.CQL + ")"
	}

	if q.SortBy != "" {
		if expr == "" {
			expr = "(cql.allRecords=1)"
		}

		expr += " sortby " + q.SortBy
	}

	if expr != "" {
		values.Set("query", expr)
	}

	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	return values
}
