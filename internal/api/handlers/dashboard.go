package handlers

import (
	"errors"
	"net/http"

	"shopdash/internal/dashboard"
	"shopdash/internal/logger"
	"shopdash/internal/models"
	"shopdash/internal/services/backend"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the overview and the write actions that go
// straight to a backend.
type DashboardHandler struct {
	dash   *dashboard.Dashboard
	shop   string
	logger *logger.Logger
}

type statusRequest struct {
	Status models.ProductStatus `json:"status" binding:"required"`
}

func NewDashboardHandler(dash *dashboard.Dashboard, shop string, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dash:   dash,
		shop:   shop,
		logger: logger,
	}
}

func (h *DashboardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"shop":   h.shop,
	})
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.dash.Overview(c.Request.Context())})
}

func (h *DashboardHandler) SyncProducts(c *gin.Context) {
	result, err := h.dash.SyncProducts(c.Request.Context())
	h.syncResponse(c, result, err)
}

func (h *DashboardHandler) SyncOrders(c *gin.Context) {
	result, err := h.dash.SyncOrders(c.Request.Context())
	h.syncResponse(c, result, err)
}

func (h *DashboardHandler) SyncCustomers(c *gin.Context) {
	result, err := h.dash.SyncCustomers(c.Request.Context())
	h.syncResponse(c, result, err)
}

func (h *DashboardHandler) UpdateProductStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.dash.UpdateProductStatus(c.Request.Context(), c.Param("id"), req.Status)
	var stale *dashboard.StaleViewError
	if errors.As(err, &stale) {
		h.logger.Warn("Product %s updated but reload failed: %v", product.ID, stale.Err)
	} else if err != nil {
		respondWithState(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *DashboardHandler) syncResponse(c *gin.Context, result backend.SyncResult, err error) {
	var stale *dashboard.StaleViewError
	if errors.As(err, &stale) {
		h.logger.Warn("Sync succeeded but refresh failed: %v", stale.Err)
	} else if err != nil {
		respondWithState(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}
