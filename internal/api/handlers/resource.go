package handlers

import (
	"context"
	"net/http"

	"shopdash/internal/dashboard"
	"shopdash/internal/logger"
	"shopdash/internal/services/backend"

	"github.com/gin-gonic/gin"
)

// pagedView is the navigation surface shared by every list screen.
type pagedView interface {
	Load(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Refresh(ctx context.Context) error
	SetPageSize(ctx context.Context, size int) error
}

type pageSizeRequest struct {
	PageSize int `json:"page_size" binding:"required"`
}

// ResourceHandler exposes one paginated view over HTTP. Every action replies
// with the view's state after the action ran.
type ResourceHandler struct {
	view      pagedView
	state     func() interface{}
	setFilter func(ctx context.Context, f dashboard.Filter) error
	filter    func() dashboard.Filter
	logger    *logger.Logger
}

func NewResourceHandler[T any, S any](view *dashboard.ResourceView[T, S], logger *logger.Logger) *ResourceHandler {
	return &ResourceHandler{
		view:      view,
		state:     func() interface{} { return view.State() },
		setFilter: view.SetFilter,
		filter:    view.Filter,
		logger:    logger,
	}
}

// List loads the view on first use. status and search query parameters
// change the filter and return to page one.
func (h *ResourceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if h.setFilter != nil {
		current := h.filter()
		wanted := dashboard.Filter{
			Status: c.DefaultQuery("status", current.Status),
			Search: c.DefaultQuery("search", current.Search),
		}
		if wanted != current {
			h.respond(c, h.setFilter(ctx, wanted))
			return
		}
	}

	h.respond(c, h.view.Load(ctx))
}

func (h *ResourceHandler) Next(c *gin.Context) {
	h.respond(c, h.view.Next(c.Request.Context()))
}

func (h *ResourceHandler) Prev(c *gin.Context) {
	h.respond(c, h.view.Prev(c.Request.Context()))
}

func (h *ResourceHandler) Refresh(c *gin.Context) {
	h.respond(c, h.view.Refresh(c.Request.Context()))
}

func (h *ResourceHandler) SetPageSize(c *gin.Context) {
	var req pageSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, h.view.SetPageSize(c.Request.Context(), req.PageSize))
}

func (h *ResourceHandler) respond(c *gin.Context, err error) {
	respondWithState(c, err, h.state())
}

// respondWithState writes data on success. Backend failures still carry the
// state so the client can keep showing what it had.
func respondWithState(c *gin.Context, err error, data interface{}) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"data": data})
	case dashboard.IsBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"error": backend.DisplayMessage(err),
			"data":  data,
		})
	}
}
