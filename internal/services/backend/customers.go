package backend

import (
	"context"
	"fmt"

	"shopdash/internal/models"
)

const customersQuery = `query Customers($shop: String!, $first: Int!, $after: String, $status: String, $search: String) {
  customers(shop: $shop, first: $first, after: $after, status: $status, search: $search) {
    success
    message
    data { id firstName lastName email phone totalSpent ordersCount status }
    pageInfo { hasNextPage endCursor }
    totalCount
  }
}`

const customerStatsQuery = `query CustomerStats($shop: String!) {
  customerStats(shop: $shop) {
    success
    message
    data { total active totalSpent }
  }
}`

const syncCustomersMutation = `mutation SyncCustomers($shop: String!) {
  syncCustomers(shop: $shop) {
    success
    message
    data { synced message }
  }
}`

type CustomersClient struct {
	gql  *GraphQLClient
	shop string
}

func NewCustomersClient(gql *GraphQLClient, shop string) *CustomersClient {
	return &CustomersClient{gql: gql, shop: shop}
}

func (c *CustomersClient) ListCustomers(ctx context.Context, params ListParams) (models.Page[models.Customer], error) {
	if c.shop == "" {
		return models.Page[models.Customer]{}, ErrMissingShop
	}
	page, err := queryPage[models.Customer](ctx, c.gql, customersQuery, "customers", params.variables(c.shop))
	if err != nil {
		return page, fmt.Errorf("failed to list customers: %w", err)
	}
	return page, nil
}

func (c *CustomersClient) CustomerStats(ctx context.Context) (models.CustomerStats, error) {
	if c.shop == "" {
		return models.CustomerStats{}, ErrMissingShop
	}
	stats, _, err := queryOne[models.CustomerStats](ctx, c.gql, customerStatsQuery, "customerStats", map[string]interface{}{"shop": c.shop})
	if err != nil {
		return stats, fmt.Errorf("failed to fetch customer stats: %w", err)
	}
	return stats, nil
}

func (c *CustomersClient) SyncCustomers(ctx context.Context) (SyncResult, error) {
	if c.shop == "" {
		return SyncResult{}, ErrMissingShop
	}
	result, message, err := queryOne[SyncResult](ctx, c.gql, syncCustomersMutation, "syncCustomers", map[string]interface{}{"shop": c.shop})
	if err != nil {
		return result, fmt.Errorf("failed to sync customers: %w", err)
	}
	if result.Message == "" {
		result.Message = message
	}
	return result, nil
}
