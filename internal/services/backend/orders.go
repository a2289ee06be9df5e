package backend

import (
	"context"
	"fmt"

	"shopdash/internal/models"
)

const ordersQuery = `query Orders($shop: String!, $first: Int!, $after: String, $status: String, $search: String) {
  orders(shop: $shop, first: $first, after: $after, status: $status, search: $search) {
    success
    message
    data { id orderNumber customerEmail totalPrice currency status fulfillmentStatus financialStatus createdAt }
    pageInfo { hasNextPage endCursor }
    totalCount
  }
}`

const orderStatsQuery = `query OrderStats($shop: String!) {
  orderStats(shop: $shop) {
    success
    message
    data { total pending fulfilled cancelled revenue currency }
  }
}`

const syncOrdersMutation = `mutation SyncOrders($shop: String!) {
  syncOrders(shop: $shop) {
    success
    message
    data { synced message }
  }
}`

type OrdersClient struct {
	gql  *GraphQLClient
	shop string
}

func NewOrdersClient(gql *GraphQLClient, shop string) *OrdersClient {
	return &OrdersClient{gql: gql, shop: shop}
}

func (c *OrdersClient) ListOrders(ctx context.Context, params ListParams) (models.Page[models.Order], error) {
	if c.shop == "" {
		return models.Page[models.Order]{}, ErrMissingShop
	}
	page, err := queryPage[models.Order](ctx, c.gql, ordersQuery, "orders", params.variables(c.shop))
	if err != nil {
		return page, fmt.Errorf("failed to list orders: %w", err)
	}
	return page, nil
}

func (c *OrdersClient) OrderStats(ctx context.Context) (models.OrderStats, error) {
	if c.shop == "" {
		return models.OrderStats{}, ErrMissingShop
	}
	stats, _, err := queryOne[models.OrderStats](ctx, c.gql, orderStatsQuery, "orderStats", map[string]interface{}{"shop": c.shop})
	if err != nil {
		return stats, fmt.Errorf("failed to fetch order stats: %w", err)
	}
	return stats, nil
}

func (c *OrdersClient) SyncOrders(ctx context.Context) (SyncResult, error) {
	if c.shop == "" {
		return SyncResult{}, ErrMissingShop
	}
	result, message, err := queryOne[SyncResult](ctx, c.gql, syncOrdersMutation, "syncOrders", map[string]interface{}{"shop": c.shop})
	if err != nil {
		return result, fmt.Errorf("failed to sync orders: %w", err)
	}
	if result.Message == "" {
		result.Message = message
	}
	return result, nil
}
