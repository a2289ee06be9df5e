package backend

import (
	"net/http"

	"shopdash/internal/config"
	"shopdash/internal/logger"
)

// Clients bundles the four backend services the dashboard reads from.
type Clients struct {
	Products  *ProductsClient
	Orders    *OrdersClient
	Customers *CustomersClient
	Events    *EventsClient
}

func NewClients(cfg *config.Config, logger *logger.Logger) *Clients {
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	log := logger.Named("backend")

	return &Clients{
		Products:  NewProductsClient(NewGraphQLClient(cfg.ProductsAPIURL, httpClient, log), cfg.ShopDomain),
		Orders:    NewOrdersClient(NewGraphQLClient(cfg.OrdersAPIURL, httpClient, log), cfg.ShopDomain),
		Customers: NewCustomersClient(NewGraphQLClient(cfg.CustomersAPIURL, httpClient, log), cfg.ShopDomain),
		Events:    NewEventsClient(cfg.EventsAPIURL, cfg.ShopDomain, httpClient, log),
	}
}
