package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Handle     string            `json:"handle"`
	Vendor     string            `json:"vendor"`
	Price      decimal.Decimal   `json:"price"`
	Inventory  int               `json:"inventoryQuantity"`
	Status     ProductStatus     `json:"status"`
	SyncStatus ProductSyncStatus `json:"syncStatus"`
	UpdatedAt  *time.Time        `json:"updatedAt,omitempty"`
}

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusDraft    ProductStatus = "DRAFT"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

// Valid reports whether s is one of the lifecycle states the backend accepts.
func (s ProductStatus) Valid() bool {
	switch s {
	case ProductStatusActive, ProductStatusDraft, ProductStatusArchived:
		return true
	}
	return false
}

type ProductSyncStatus string

const (
	SyncStatusSynced  ProductSyncStatus = "SYNCED"
	SyncStatusPending ProductSyncStatus = "PENDING"
	SyncStatusFailed  ProductSyncStatus = "FAILED"
)

// InStock is false once inventory reaches zero.
func (p Product) InStock() bool {
	return p.Inventory > 0
}

type ProductStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Draft      int `json:"draft"`
	Archived   int `json:"archived"`
	OutOfStock int `json:"outOfStock"`
}
