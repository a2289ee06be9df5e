package backend

import (
	"context"
	"fmt"

	"shopdash/internal/models"
)

const productFields = `id title handle vendor price inventoryQuantity status syncStatus updatedAt`

const productsQuery = `query Products($shop: String!, $first: Int!, $after: String, $status: String, $search: String) {
  products(shop: $shop, first: $first, after: $after, status: $status, search: $search) {
    success
    message
    data { ` + productFields + ` }
    pageInfo { hasNextPage endCursor }
    totalCount
  }
}`

const productStatsQuery = `query ProductStats($shop: String!) {
  productStats(shop: $shop) {
    success
    message
    data { total active draft archived outOfStock }
  }
}`

const syncProductsMutation = `mutation SyncProducts($shop: String!) {
  syncProducts(shop: $shop) {
    success
    message
    data { synced message }
  }
}`

const updateProductStatusMutation = `mutation UpdateProductStatus($shop: String!, $id: ID!, $status: String!) {
  updateProductStatus(shop: $shop, id: $id, status: $status) {
    success
    message
    data { ` + productFields + ` }
  }
}`

type ProductsClient struct {
	gql  *GraphQLClient
	shop string
}

func NewProductsClient(gql *GraphQLClient, shop string) *ProductsClient {
	return &ProductsClient{gql: gql, shop: shop}
}

// ListProducts fetches one page of products
func (c *ProductsClient) ListProducts(ctx context.Context, params ListParams) (models.Page[models.Product], error) {
	if c.shop == "" {
		return models.Page[models.Product]{}, ErrMissingShop
	}
	page, err := queryPage[models.Product](ctx, c.gql, productsQuery, "products", params.variables(c.shop))
	if err != nil {
		return page, fmt.Errorf("failed to list products: %w", err)
	}
	return page, nil
}

func (c *ProductsClient) ProductStats(ctx context.Context) (models.ProductStats, error) {
	if c.shop == "" {
		return models.ProductStats{}, ErrMissingShop
	}
	stats, _, err := queryOne[models.ProductStats](ctx, c.gql, productStatsQuery, "productStats", map[string]interface{}{"shop": c.shop})
	if err != nil {
		return stats, fmt.Errorf("failed to fetch product stats: %w", err)
	}
	return stats, nil
}

// SyncProducts asks the products service to pull the catalogue from Shopify.
func (c *ProductsClient) SyncProducts(ctx context.Context) (SyncResult, error) {
	if c.shop == "" {
		return SyncResult{}, ErrMissingShop
	}
	result, message, err := queryOne[SyncResult](ctx, c.gql, syncProductsMutation, "syncProducts", map[string]interface{}{"shop": c.shop})
	if err != nil {
		return result, fmt.Errorf("failed to sync products: %w", err)
	}
	if result.Message == "" {
		result.Message = message
	}
	return result, nil
}

func (c *ProductsClient) UpdateProductStatus(ctx context.Context, id string, status models.ProductStatus) (models.Product, error) {
	if c.shop == "" {
		return models.Product{}, ErrMissingShop
	}
	if !status.Valid() {
		return models.Product{}, fmt.Errorf("invalid product status %q", status)
	}
	product, _, err := queryOne[models.Product](ctx, c.gql, updateProductStatusMutation, "updateProductStatus", map[string]interface{}{
		"shop":   c.shop,
		"id":     id,
		"status": string(status),
	})
	if err != nil {
		return product, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return product, nil
}
