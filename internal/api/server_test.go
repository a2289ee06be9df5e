package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"shopdash/internal/config"
	"shopdash/internal/dashboard"
	"shopdash/internal/database"
	"shopdash/internal/logger"
	"shopdash/internal/models"
	"shopdash/internal/services/backend"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func page[T any](all []T, first int, after string) models.Page[T] {
	start := 0
	if after != "" {
		n, _ := strconv.Atoi(after)
		start = n + 1
	}
	end := start + first
	if end > len(all) {
		end = len(all)
	}
	p := models.Page[T]{Items: append([]T{}, all[start:end]...), TotalCount: len(all)}
	if end > start {
		p.PageInfo.EndCursor = strconv.Itoa(end - 1)
	}
	p.PageInfo.HasNextPage = end < len(all)
	return p
}

type stubProducts struct{ products []models.Product }

func (s *stubProducts) ListProducts(_ context.Context, params backend.ListParams) (models.Page[models.Product], error) {
	var matching []models.Product
	for _, p := range s.products {
		if params.Status == "" || string(p.Status) == params.Status {
			matching = append(matching, p)
		}
	}
	return page(matching, params.First, params.After), nil
}

func (s *stubProducts) ProductStats(context.Context) (models.ProductStats, error) {
	return models.ProductStats{Total: len(s.products)}, nil
}

func (s *stubProducts) SyncProducts(context.Context) (backend.SyncResult, error) {
	return backend.SyncResult{Synced: len(s.products), Message: "Products synced"}, nil
}

func (s *stubProducts) UpdateProductStatus(_ context.Context, id string, status models.ProductStatus) (models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Status = status
			return s.products[i], nil
		}
	}
	return models.Product{}, &backend.EnvelopeError{Message: "Product not found"}
}

type brokenOrders struct{}

func (brokenOrders) ListOrders(context.Context, backend.ListParams) (models.Page[models.Order], error) {
	return models.Page[models.Order]{}, &backend.StatusError{Code: http.StatusServiceUnavailable}
}

func (brokenOrders) OrderStats(context.Context) (models.OrderStats, error) {
	return models.OrderStats{}, &backend.StatusError{Code: http.StatusServiceUnavailable}
}

func (brokenOrders) SyncOrders(context.Context) (backend.SyncResult, error) {
	return backend.SyncResult{}, &backend.GraphQLError{Messages: []string{"sync already running"}}
}

type stubCustomers struct{}

func (stubCustomers) ListCustomers(_ context.Context, params backend.ListParams) (models.Page[models.Customer], error) {
	return page([]models.Customer{{ID: "c1", FirstName: "Ada"}}, params.First, params.After), nil
}

func (stubCustomers) CustomerStats(context.Context) (models.CustomerStats, error) {
	return models.CustomerStats{Total: 1}, nil
}

func (stubCustomers) SyncCustomers(context.Context) (backend.SyncResult, error) {
	return backend.SyncResult{Synced: 1}, nil
}

type stubEvents struct{ events []models.WebhookEvent }

func (s *stubEvents) ListEvents(_ context.Context, params backend.EventParams) (models.Page[models.WebhookEvent], error) {
	var matching []models.WebhookEvent
	for _, e := range s.events {
		if params.Topic == "" || e.Topic == params.Topic {
			matching = append(matching, e)
		}
	}
	return page(matching, params.Limit, params.Cursor), nil
}

type testEnv struct {
	server *Server
	dash   *dashboard.Dashboard
	db     *database.Database
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		ShopDomain:              "demo.myshopify.com",
		CORSAllowedOrigins:      []string{"http://localhost:3000"},
		DefaultPageSize:         2,
		EventsPageSize:          10,
		PollInterval:            time.Hour,
		NotificationCapacity:    5,
		NotificationAutoDismiss: time.Minute,
		NotificationMaxAge:      time.Hour,
		NotificationCleanup:     time.Minute,
		HTTPTimeout:             time.Second,
	}
	log := logger.NewWithWriter("error", io.Discard)

	db, err := database.New("sqlite://file::memory:", false)
	require.NoError(t, err)

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	dash := dashboard.New(cfg, dashboard.Backends{
		Products: &stubProducts{products: []models.Product{
			{ID: "p1", Title: "Hat", Status: models.ProductStatusActive},
			{ID: "p2", Title: "Scarf", Status: models.ProductStatusDraft},
			{ID: "p3", Title: "Gloves", Status: models.ProductStatusActive},
		}},
		Orders:    brokenOrders{},
		Customers: stubCustomers{},
		Events: &stubEvents{events: []models.WebhookEvent{
			{ID: "e2", Topic: "products/update", ShopDomain: cfg.ShopDomain, CreatedAt: created.Add(time.Second)},
			{ID: "e1", Topic: "orders/create", ShopDomain: cfg.ShopDomain, CreatedAt: created},
		}},
	}, nil, log)

	t.Cleanup(func() {
		dash.Close()
		db.Close()
	})

	return &testEnv{
		server: New(cfg, log, dash, db),
		dash:   dash,
		db:     db,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %v", body)
	return d
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec, body := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "demo.myshopify.com", body["shop"])
}

func TestProductPaging(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := data(t, body)
	assert.Len(t, state["items"], 2)
	assert.Equal(t, true, state["has_next_page"])
	assert.Equal(t, float64(1), state["page"])

	rec, body = env.do(t, http.MethodPost, "/api/v1/products/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state = data(t, body)
	assert.Equal(t, float64(2), state["page"])
	assert.Len(t, state["items"], 1)

	rec, body = env.do(t, http.MethodPost, "/api/v1/products/prev", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), data(t, body)["page"])

	rec, body = env.do(t, http.MethodPut, "/api/v1/products/page-size", gin.H{"page_size": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, data(t, body)["items"], 3)

	rec, _ = env.do(t, http.MethodPut, "/api/v1/products/page-size", gin.H{"page_size": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductFilterFromQuery(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/products?status=DRAFT", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := data(t, body)
	items := state["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].(map[string]interface{})["id"])
	assert.Equal(t, "DRAFT", state["filter"].(map[string]interface{})["status"])
}

func TestUpdateProductStatus(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodPut, "/api/v1/products/p1/status", gin.H{"status": "BOGUS"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := env.do(t, http.MethodPut, "/api/v1/products/p1/status", gin.H{"status": "ARCHIVED"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ARCHIVED", data(t, body)["status"])

	rec, body = env.do(t, http.MethodPut, "/api/v1/products/missing/status", gin.H{"status": "DRAFT"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Product not found", body["error"])
}

func TestSync(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/v1/products/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), data(t, body)["synced"])

	rec, body = env.do(t, http.MethodPost, "/api/v1/orders/sync", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "sync already running", body["error"])
}

func TestBackendFailureKeepsState(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Request failed with status 503", body["error"])
	state := data(t, body)
	assert.Equal(t, "Request failed with status 503", state["error"])
	assert.Empty(t, state["items"])
}

func TestOverview(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ov := data(t, body)
	assert.Equal(t, float64(3), ov["products"].(map[string]interface{})["total"])
	assert.Equal(t, float64(2), ov["events"].(map[string]interface{})["total"])
	assert.Len(t, ov["errors"], 1)
}

func TestEventsRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/v1/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, data(t, body)["items"], 2)

	rec, body = env.do(t, http.MethodPut, "/api/v1/events/topic", gin.H{"topic": "orders/create"})
	require.Equal(t, http.StatusOK, rec.Code)
	state := data(t, body)
	assert.Equal(t, "orders/create", state["topic"])
	assert.Len(t, state["items"], 1)

	rec, body = env.do(t, http.MethodPost, "/api/v1/events/polling/start", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, data(t, body)["polling"].(map[string]interface{})["active"])

	rec, _ = env.do(t, http.MethodPut, "/api/v1/events/polling/interval", gin.H{"interval_ms": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodPut, "/api/v1/events/polling/interval", gin.H{"interval_ms": 60000})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/v1/events/polling/stop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, data(t, body)["polling"].(map[string]interface{})["active"])
}

func TestNotifications(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	emitted := env.dash.Notifications.Observe(ctx, []models.WebhookEvent{
		{ID: "n1", Topic: "orders/paid", CreatedAt: time.Now()},
		{ID: "n2", Topic: "products/delete", CreatedAt: time.Now().Add(time.Second)},
	})
	require.Len(t, emitted, 2)

	rec, body := env.do(t, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := body["data"].([]interface{})
	require.Len(t, items, 2)
	// Visible toasts are never dismissed, so no such flag goes out.
	first := items[0].(map[string]interface{})
	assert.Equal(t, "n2", first["event_id"])
	assert.NotContains(t, first, "dismissed")
	assert.Contains(t, first, "dismiss_at")

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/notifications/"+emitted[0].ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodDelete, "/api/v1/notifications/"+emitted[0].ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = env.do(t, http.MethodDelete, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), data(t, body)["dismissed"])
}

func TestNotificationHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	n := models.Notification{ID: "n-1", EventID: "evt-1", Topic: "orders/create", CreatedAt: time.Now()}
	require.NoError(t, env.db.RecordNotification(ctx, models.NewNotificationRecord(n, "demo.myshopify.com")))

	rec, body := env.do(t, http.MethodGet, "/api/v1/notifications/history?limit=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	records := body["data"].([]interface{})
	require.Len(t, records, 1)
	assert.Equal(t, "evt-1", records[0].(map[string]interface{})["event_id"])
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	env.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryReturnsJSON(t *testing.T) {
	env := newTestEnv(t)
	env.server.Router().GET("/panic", func(*gin.Context) { panic(errors.New("boom")) })

	rec, body := env.do(t, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["error"])
}
