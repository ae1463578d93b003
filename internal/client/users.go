package client

import (
	"context"

	"github.com/openfolio-io/okapi-client/internal/http"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// UsersPath is the user records list endpoint.
const UsersPath = "/users"

// UsersClient implements okapi.UsersClient.
type UsersClient struct {
	httpClient *http.Client
	pages      *pageClient[okapi.User]
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{
		httpClient: httpClient,
		pages:      newPageClient[okapi.User](httpClient, okapi.RecordKeyUsers),
	}
}

// GetByID implements okapi.UsersClient.GetByID.
func (c *UsersClient) GetByID(ctx context.Context, id string) (*okapi.User, error) {
	query := okapi.NewQuery().MatchExact("id", id)

	return fetchOne(ctx, c.pages, UsersPath, query, "user", id)
}

// GetByBarcode implements okapi.UsersClient.GetByBarcode.
func (c *UsersClient) GetByBarcode(ctx context.Context, barcode string) (*okapi.User, error) {
	query := okapi.NewQuery().MatchExact("barcode", barcode)

	return fetchOne(ctx, c.pages, UsersPath, query, "user", barcode)
}

// GetByUsername implements okapi.UsersClient.GetByUsername.
func (c *UsersClient) GetByUsername(ctx context.Context, username string) (*okapi.User, error) {
	query := okapi.NewQuery().MatchExact("username", username)

	return fetchOne(ctx, c.pages, UsersPath, query, "user", username)
}

// Search implements okapi.UsersClient.Search.
func (c *UsersClient) Search(ctx context.Context, query *okapi.Query) *okapi.RecordCursor[okapi.User] {
	return okapi.NewRecordCursor(ctx, c.pages, UsersPath, query)
}
