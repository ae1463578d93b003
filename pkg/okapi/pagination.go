package okapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openfolio-io/okapi-client/internal/constants"
)

// RecordPage is one decoded page of a paginated result set: the items at
// one offset plus the server-reported total-record estimate. Pages are
// transient; the cursor discards them once their items are yielded.
type RecordPage[T any] struct {
	Items        []T
	TotalRecords int
}

// PageClient fetches one page of records for a list endpoint.
type PageClient[T any] interface {
	ListPage(ctx context.Context, path string, query *Query) (*RecordPage[T], error)
}

// RecordCursor lazily advances through a paginated result set in strictly
// increasing offset order. The server-reported total is an estimate and
// is re-read on every page; the cursor tolerates it changing between
// pages. A cursor is forward-only and non-restartable: once exhausted,
// construct a new one to iterate again.
//
// The stop condition is offset <= total with the total initialized to
// zero, so even a confirmed-empty result set performs exactly one page
// fetch. When the total is an exact multiple of the page size this runs
// one extra empty-yielding page; callers rely on the at-least-one-fetch
// guarantee, so the condition is kept as-is.
type RecordCursor[T any] struct {
	ctx      context.Context
	client   PageClient[T]
	path     string
	query    *Query
	pageSize int

	offset int
	total  int
	primed bool
	buffer []T
	err    error
}

// NewRecordCursor creates a cursor over a list endpoint. The page size is
// taken from the query's Limit when positive, otherwise the default of
// 1000 is used.
func NewRecordCursor[T any](ctx context.Context, client PageClient[T], path string, query *Query) *RecordCursor[T] {
	query = query.Clone()

	pageSize := query.Limit
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}

	return &RecordCursor[T]{
		ctx:      ctx,
		client:   client,
		path:     path,
		query:    query,
		pageSize: pageSize,
	}
}

// advance fetches pages until items are buffered, an error occurs, or the
// offset passes the latest total estimate.
func (c *RecordCursor[T]) advance() {
	for len(c.buffer) == 0 && c.err == nil && (!c.primed || c.offset <= c.total) {
		c.fetchPage()
	}
}

func (c *RecordCursor[T]) fetchPage() {
	query := c.query.Clone().WithOffset(c.offset).WithLimit(c.pageSize)

	page, err := c.client.ListPage(c.ctx, c.path, query)
	if err != nil {
		c.err = err

		return
	}

	c.total = page.TotalRecords
	c.buffer = page.Items
	c.offset += c.pageSize
	c.primed = true
}

// HasNext reports whether another item (or a pending error) is available.
// It may fetch the next page.
func (c *RecordCursor[T]) HasNext() bool {
	c.advance()

	return c.err != nil || len(c.buffer) > 0
}

// Next returns the next item. A page fetch failure aborts the iteration;
// items already yielded are not retracted. After exhaustion Next returns
// ErrNoMoreRecords.
func (c *RecordCursor[T]) Next() (T, error) {
	var zero T

	c.advance()

	if c.err != nil {
		return zero, c.err
	}

	if len(c.buffer) == 0 {
		return zero, ErrNoMoreRecords
	}

	item := c.buffer[0]
	c.buffer = c.buffer[1:]

	return item, nil
}

// All drains the cursor and returns the remaining items.
func (c *RecordCursor[T]) All() ([]T, error) {
	var items []T

	for c.HasNext() {
		item, err := c.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	return items, nil
}

// ForEach applies fn to each remaining item, stopping on the first error.
func (c *RecordCursor[T]) ForEach(fn func(item T) error) error {
	for c.HasNext() {
		item, err := c.Next()
		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return nil
}

// TotalEstimate returns the latest server-reported total-record estimate.
// It is zero before the first page has been fetched and may change as
// pages are consumed.
func (c *RecordCursor[T]) TotalEstimate() int {
	return c.total
}

// DecodeRecordPage decodes one list-endpoint response body. The items
// live in the named result array (an absent key yields an empty page)
// and the total comes from the totalRecords field (absent means zero).
func DecodeRecordPage[T any](body []byte, recordKey string) (*RecordPage[T], error) {
	var envelope map[string]json.RawMessage

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return nil, fmt.Errorf("parsing record page: %w", err)
	}

	page := &RecordPage[T]{Items: []T{}}

	if raw, ok := envelope["totalRecords"]; ok {
		err = json.Unmarshal(raw, &page.TotalRecords)
		if err != nil {
			return nil, fmt.Errorf("parsing totalRecords: %w", err)
		}
	}

	if raw, ok := envelope[recordKey]; ok {
		err = json.Unmarshal(raw, &page.Items)
		if err != nil {
			return nil, fmt.Errorf("parsing %s records: %w", recordKey, err)
		}
	}

	return page, nil
}
