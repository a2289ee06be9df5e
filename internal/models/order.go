package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"orderNumber"`
	CustomerEmail     string          `json:"customerEmail"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	Currency          string          `json:"currency"`
	Status            string          `json:"status"`
	FulfillmentStatus string          `json:"fulfillmentStatus"`
	FinancialStatus   string          `json:"financialStatus"`
	CreatedAt         *time.Time      `json:"createdAt,omitempty"`
}

type OrderStats struct {
	Total     int             `json:"total"`
	Pending   int             `json:"pending"`
	Fulfilled int             `json:"fulfilled"`
	Cancelled int             `json:"cancelled"`
	Revenue   decimal.Decimal `json:"revenue"`
	Currency  string          `json:"currency"`
}
