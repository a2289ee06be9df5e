package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID          string          `json:"id"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone,omitempty"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	OrdersCount int             `json:"ordersCount"`
	Status      string          `json:"status"`
}

// FullName joins the name parts, falling back to the email when both are empty.
func (c Customer) FullName() string {
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Email
	}
	return name
}

type CustomerStats struct {
	Total      int             `json:"total"`
	Active     int             `json:"active"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
}
