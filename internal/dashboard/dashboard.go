// Package dashboard holds the per-screen state of the store dashboard: one
// paginated view per backend collection, the polled events feed and the
// notification queue it drives.
package dashboard

import (
	"context"
	"errors"
	"fmt"

	"shopdash/internal/config"
	"shopdash/internal/logger"
	"shopdash/internal/models"
	"shopdash/internal/notify"
	"shopdash/internal/pager"
	"shopdash/internal/poller"
	"shopdash/internal/services/backend"
)

var ErrInvalidInput = errors.New("invalid input")

// StaleViewError reports a write that reached the backend but whose
// follow-up reload failed, leaving the view showing older data.
type StaleViewError struct {
	Err error
}

func (e *StaleViewError) Error() string { return "view not refreshed: " + e.Err.Error() }

func (e *StaleViewError) Unwrap() error { return e.Err }

func staleView(err error) error {
	if err == nil {
		return nil
	}
	return &StaleViewError{Err: err}
}

type ProductsAPI interface {
	ListProducts(ctx context.Context, params backend.ListParams) (models.Page[models.Product], error)
	ProductStats(ctx context.Context) (models.ProductStats, error)
	SyncProducts(ctx context.Context) (backend.SyncResult, error)
	UpdateProductStatus(ctx context.Context, id string, status models.ProductStatus) (models.Product, error)
}

type OrdersAPI interface {
	ListOrders(ctx context.Context, params backend.ListParams) (models.Page[models.Order], error)
	OrderStats(ctx context.Context) (models.OrderStats, error)
	SyncOrders(ctx context.Context) (backend.SyncResult, error)
}

type CustomersAPI interface {
	ListCustomers(ctx context.Context, params backend.ListParams) (models.Page[models.Customer], error)
	CustomerStats(ctx context.Context) (models.CustomerStats, error)
	SyncCustomers(ctx context.Context) (backend.SyncResult, error)
}

// Backends is the set of services a Dashboard reads from.
type Backends struct {
	Products  ProductsAPI
	Orders    OrdersAPI
	Customers CustomersAPI
	Events    EventsAPI
}

// FromClients adapts the HTTP clients to Backends.
func FromClients(c *backend.Clients) Backends {
	return Backends{
		Products:  c.Products,
		Orders:    c.Orders,
		Customers: c.Customers,
		Events:    c.Events,
	}
}

type (
	ProductsView  = ResourceView[models.Product, models.ProductStats]
	OrdersView    = ResourceView[models.Order, models.OrderStats]
	CustomersView = ResourceView[models.Customer, models.CustomerStats]
)

type Dashboard struct {
	Products      *ProductsView
	Orders        *OrdersView
	Customers     *CustomersView
	Events        *EventsView
	Notifications *notify.Tracker

	backends Backends
	logger   *logger.Logger
}

// Overview is the stats row across every screen.
type Overview struct {
	Products            models.ProductStats  `json:"products"`
	Orders              models.OrderStats    `json:"orders"`
	Customers           models.CustomerStats `json:"customers"`
	Events              models.EventStats    `json:"events"`
	ActiveNotifications int                  `json:"active_notifications"`
	Errors              []string             `json:"errors,omitempty"`
}

func New(cfg *config.Config, backends Backends, sink notify.Sink, logger *logger.Logger) *Dashboard {
	tracker := notify.NewTracker(notify.Options{
		Capacity:        cfg.NotificationCapacity,
		AutoDismiss:     cfg.NotificationAutoDismiss,
		MaxAge:          cfg.NotificationMaxAge,
		CleanupInterval: cfg.NotificationCleanup,
	}, sink, logger.Named("notifications"))

	return &Dashboard{
		Products:      NewResourceView("products", cfg.DefaultPageSize, backends.Products.ListProducts, backends.Products.ProductStats, logger),
		Orders:        NewResourceView("orders", cfg.DefaultPageSize, backends.Orders.ListOrders, backends.Orders.OrderStats, logger),
		Customers:     NewResourceView("customers", cfg.DefaultPageSize, backends.Customers.ListCustomers, backends.Customers.CustomerStats, logger),
		Events:        NewEventsView(backends.Events, cfg.EventsPageSize, cfg.PollInterval, tracker, logger),
		Notifications: tracker,
		backends:      backends,
		logger:        logger,
	}
}

// SyncProducts triggers a catalogue sync and shows the first page again.
func (d *Dashboard) SyncProducts(ctx context.Context) (backend.SyncResult, error) {
	result, err := d.backends.Products.SyncProducts(ctx)
	if err != nil {
		return result, err
	}
	d.logger.Info("Synced %d products", result.Synced)
	return result, staleView(d.Products.Refresh(ctx))
}

func (d *Dashboard) SyncOrders(ctx context.Context) (backend.SyncResult, error) {
	result, err := d.backends.Orders.SyncOrders(ctx)
	if err != nil {
		return result, err
	}
	d.logger.Info("Synced %d orders", result.Synced)
	return result, staleView(d.Orders.Refresh(ctx))
}

func (d *Dashboard) SyncCustomers(ctx context.Context) (backend.SyncResult, error) {
	result, err := d.backends.Customers.SyncCustomers(ctx)
	if err != nil {
		return result, err
	}
	d.logger.Info("Synced %d customers", result.Synced)
	return result, staleView(d.Customers.Refresh(ctx))
}

// UpdateProductStatus changes a product's lifecycle state and reloads the
// page the user is on.
func (d *Dashboard) UpdateProductStatus(ctx context.Context, id string, status models.ProductStatus) (models.Product, error) {
	if !status.Valid() {
		return models.Product{}, fmt.Errorf("%w: product status %q", ErrInvalidInput, status)
	}
	product, err := d.backends.Products.UpdateProductStatus(ctx, id, status)
	if err != nil {
		return product, err
	}
	return product, staleView(d.Products.Reload(ctx))
}

// Overview loads any view not yet loaded and collects the stats of all of them.
func (d *Dashboard) Overview(ctx context.Context) Overview {
	var errs []error
	errs = append(errs,
		d.Products.Load(ctx),
		d.Orders.Load(ctx),
		d.Customers.Load(ctx),
		d.Events.Load(ctx),
	)

	ov := Overview{
		Products:            d.Products.Stats(),
		Orders:              d.Orders.Stats(),
		Customers:           d.Customers.Stats(),
		Events:              d.Events.State().Stats,
		ActiveNotifications: len(d.Notifications.Active()),
	}
	for _, err := range errs {
		if err != nil {
			ov.Errors = append(ov.Errors, backend.DisplayMessage(err))
		}
	}
	return ov
}

// Run sweeps expired notifications until ctx is done.
func (d *Dashboard) Run(ctx context.Context) {
	d.Notifications.Run(ctx)
}

// Close stops polling.
func (d *Dashboard) Close() {
	d.Events.Close()
}

// IsBadRequest reports errors caused by the caller's input rather than a backend.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, pager.ErrInvalidPageSize) ||
		errors.Is(err, poller.ErrInvalidInterval)
}
