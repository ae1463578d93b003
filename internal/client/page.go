package client

import (
	"context"

	"github.com/openfolio-io/okapi-client/internal/http"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// pageClient adapts one list endpoint to okapi.PageClient: it fetches a
// page and decodes the result array named by recordKey.
type pageClient[T any] struct {
	httpClient *http.Client
	recordKey  string
}

func newPageClient[T any](httpClient *http.Client, recordKey string) *pageClient[T] {
	return &pageClient[T]{
		httpClient: httpClient,
		recordKey:  recordKey,
	}
}

// ListPage implements okapi.PageClient.
func (p *pageClient[T]) ListPage(ctx context.Context, path string, query *okapi.Query) (*okapi.RecordPage[T], error) {
	resp, err := p.httpClient.Get(ctx, path, query.ToValues())
	if err != nil {
		return nil, err
	}

	page, err := okapi.DecodeRecordPage[T](resp.Body, p.recordKey)
	if err != nil {
		return nil, &okapi.UpstreamDataError{
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Message:    err.Error(),
		}
	}

	return page, nil
}

// fetchOne runs a single-match lookup: it narrows the query to one page
// and expects exactly one record. Zero matches yield a NotFoundError.
func fetchOne[T any](ctx context.Context, p *pageClient[T], path string, query *okapi.Query, resource, identifier string) (*T, error) {
	page, err := p.ListPage(ctx, path, query.Clone().WithOffset(0).WithLimit(1))
	if err != nil {
		return nil, err
	}

	if len(page.Items) == 0 {
		return nil, &okapi.NotFoundError{Resource: resource, Identifier: identifier}
	}

	return &page.Items[0], nil
}
