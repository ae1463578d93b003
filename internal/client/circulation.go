package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openfolio-io/okapi-client/internal/http"
	"github.com/openfolio-io/okapi-client/pkg/okapi"
)

// Circulation endpoints.
const (
	LoansPath    = "/circulation/loans"
	RequestsPath = "/circulation/requests"
	AccountsPath = "/accounts"
	RenewalPath  = "/circulation/renew-by-id"
)

// CirculationClient implements okapi.CirculationClient.
type CirculationClient struct {
	httpClient *http.Client
	loans      *pageClient[okapi.Loan]
	requests   *pageClient[okapi.HoldRequest]
	accounts   *pageClient[okapi.Account]
}

// NewCirculationClient creates a new circulation client.
func NewCirculationClient(httpClient *http.Client) *CirculationClient {
	return &CirculationClient{
		httpClient: httpClient,
		loans:      newPageClient[okapi.Loan](httpClient, okapi.RecordKeyLoans),
		requests:   newPageClient[okapi.HoldRequest](httpClient, okapi.RecordKeyRequests),
		accounts:   newPageClient[okapi.Account](httpClient, okapi.RecordKeyAccounts),
	}
}

// OpenLoans implements okapi.CirculationClient.OpenLoans.
func (c *CirculationClient) OpenLoans(ctx context.Context, userID string) *okapi.RecordCursor[okapi.Loan] {
	query := okapi.NewQuery().
		MatchExact("userId", userID).
		MatchExact("status.name", "Open").
		WithSortBy("dueDate")

	return okapi.NewRecordCursor(ctx, c.loans, LoansPath, query)
}

// Requests implements okapi.CirculationClient.Requests.
func (c *CirculationClient) Requests(ctx context.Context, userID string) *okapi.RecordCursor[okapi.HoldRequest] {
	query := okapi.NewQuery().
		MatchExact("requesterId", userID).
		MatchNot("status", "Closed - Cancelled")

	return okapi.NewRecordCursor(ctx, c.requests, RequestsPath, query)
}

// Accounts implements okapi.CirculationClient.Accounts.
func (c *CirculationClient) Accounts(ctx context.Context, userID string) *okapi.RecordCursor[okapi.Account] {
	query := okapi.NewQuery().
		MatchExact("userId", userID).
		MatchExact("status.name", "Open")

	return okapi.NewRecordCursor(ctx, c.accounts, AccountsPath, query)
}

// RenewLoan implements okapi.CirculationClient.RenewLoan.
func (c *CirculationClient) RenewLoan(ctx context.Context, userID, itemID string) (*okapi.Loan, error) {
	body := map[string]string{
		"userId": userID,
		"itemId": itemID,
	}

	resp, err := c.httpClient.Post(ctx, RenewalPath, body)
	if err != nil {
		return nil, fmt.Errorf("renewing loan: %w", err)
	}

	var loan okapi.Loan

	err = json.Unmarshal(resp.Body, &loan)
	if err != nil {
		return nil, fmt.Errorf("parsing renewal response: %w", err)
	}

	return &loan, nil
}
