package handlers

import (
	"context"
	"net/http"
	"strconv"

	"shopdash/internal/logger"
	"shopdash/internal/models"
	"shopdash/internal/notify"

	"github.com/gin-gonic/gin"
)

// HistoryStore reads the persisted notification log.
type HistoryStore interface {
	ListNotifications(ctx context.Context, limit int) ([]models.NotificationRecord, error)
}

type NotificationHandler struct {
	tracker *notify.Tracker
	history HistoryStore
	logger  *logger.Logger
}

func NewNotificationHandler(tracker *notify.Tracker, history HistoryStore, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		tracker: tracker,
		history: history,
		logger:  logger,
	}
}

// List returns the visible notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.tracker.Active()})
}

func (h *NotificationHandler) Dismiss(c *gin.Context) {
	id := c.Param("id")
	if !h.tracker.Dismiss(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.tracker.Active()})
}

func (h *NotificationHandler) DismissAll(c *gin.Context) {
	dismissed := h.tracker.DismissAll()
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"dismissed": dismissed}})
}

func (h *NotificationHandler) History(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Notification history is not available"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	records, err := h.history.ListNotifications(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to fetch notification history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notification history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": records})
}
