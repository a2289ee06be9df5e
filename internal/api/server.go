package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shopdash/internal/api/handlers"
	"shopdash/internal/api/middleware"
	"shopdash/internal/config"
	"shopdash/internal/dashboard"
	"shopdash/internal/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

// New wires the dashboard's views into routes. history may be nil, in which
// case the history endpoint answers 503.
func New(cfg *config.Config, logger *logger.Logger, dash *dashboard.Dashboard, history handlers.HistoryStore) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	// Initialize handlers
	apiLogger := logger.Named("api")
	dashboardHandler := handlers.NewDashboardHandler(dash, cfg.ShopDomain, apiLogger)
	productHandler := handlers.NewResourceHandler(dash.Products, apiLogger)
	orderHandler := handlers.NewResourceHandler(dash.Orders, apiLogger)
	customerHandler := handlers.NewResourceHandler(dash.Customers, apiLogger)
	eventHandler := handlers.NewEventsHandler(dash.Events, apiLogger)
	notificationHandler := handlers.NewNotificationHandler(dash.Notifications, history, apiLogger)

	router.GET("/health", dashboardHandler.Health)

	// Routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/overview", dashboardHandler.Overview)

		// Products
		products := v1.Group("/products")
		{
			registerPaging(products, productHandler)
			products.POST("/sync", dashboardHandler.SyncProducts)
			products.PUT("/:id/status", dashboardHandler.UpdateProductStatus)
		}

		// Orders
		orders := v1.Group("/orders")
		{
			registerPaging(orders, orderHandler)
			orders.POST("/sync", dashboardHandler.SyncOrders)
		}

		// Customers
		customers := v1.Group("/customers")
		{
			registerPaging(customers, customerHandler)
			customers.POST("/sync", dashboardHandler.SyncCustomers)
		}

		// Webhook events
		events := v1.Group("/events")
		{
			registerPaging(events, eventHandler.ResourceHandler)
			events.PUT("/topic", eventHandler.SetTopic)
			events.POST("/polling/start", eventHandler.StartPolling)
			events.POST("/polling/stop", eventHandler.StopPolling)
			events.PUT("/polling/interval", eventHandler.SetPollInterval)
		}

		// Notifications
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/history", notificationHandler.History)
			notifications.DELETE("/:id", notificationHandler.Dismiss)
			notifications.DELETE("", notificationHandler.DismissAll)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func registerPaging(group *gin.RouterGroup, h *handlers.ResourceHandler) {
	group.GET("", h.List)
	group.POST("/next", h.Next)
	group.POST("/prev", h.Prev)
	group.POST("/refresh", h.Refresh)
	group.PUT("/page-size", h.SetPageSize)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.config.HTTPTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the handler tree for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
