package client

import (
	"context"

	"github.com/openfolio-io/okapi-client/internal/http"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// Inventory endpoints.
const (
	InstancesPath = "/instance-storage/instances"
	HoldingsPath  = "/holdings-storage/holdings"
	ItemsPath     = "/item-storage/items"
)

// InventoryClient implements okapi.InventoryClient.
type InventoryClient struct {
	httpClient *http.Client
	instances  *pageClient[okapi.Instance]
	holdings   *pageClient[okapi.Holding]
	items      *pageClient[okapi.Item]
}

// NewInventoryClient creates a new inventory client.
func NewInventoryClient(httpClient *http.Client) *InventoryClient {
	return &InventoryClient{
		httpClient: httpClient,
		instances:  newPageClient[okapi.Instance](httpClient, okapi.RecordKeyInstances),
		holdings:   newPageClient[okapi.Holding](httpClient, okapi.RecordKeyHoldings),
		items:      newPageClient[okapi.Item](httpClient, okapi.RecordKeyItems),
	}
}

// GetInstance implements okapi.InventoryClient.GetInstance.
func (c *InventoryClient) GetInstance(ctx context.Context, id string) (*okapi.Instance, error) {
	query := okapi.NewQuery().MatchExact("id", id)

	return fetchOne(ctx, c.instances, InstancesPath, query, "instance", id)
}

// GetInstanceByHRID implements okapi.InventoryClient.GetInstanceByHRID.
func (c *InventoryClient) GetInstanceByHRID(ctx context.Context, hrid string) (*okapi.Instance, error) {
	query := okapi.NewQuery().MatchExact("hrid", hrid)

	return fetchOne(ctx, c.instances, InstancesPath, query, "instance", hrid)
}

// Holdings implements okapi.InventoryClient.Holdings.
func (c *InventoryClient) Holdings(ctx context.Context, instanceID string) *okapi.RecordCursor[okapi.Holding] {
	query := okapi.NewQuery().MatchExact("instanceId", instanceID)

	return okapi.NewRecordCursor(ctx, c.holdings, HoldingsPath, query)
}

// Items implements okapi.InventoryClient.Items.
func (c *InventoryClient) Items(ctx context.Context, holdingsRecordID string) *okapi.RecordCursor[okapi.Item] {
	query := okapi.NewQuery().MatchExact("holdingsRecordId", holdingsRecordID)

	return okapi.NewRecordCursor(ctx, c.items, ItemsPath, query)
}
