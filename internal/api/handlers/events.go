package handlers

import (
	"net/http"
	"time"

	"shopdash/internal/dashboard"
	"shopdash/internal/logger"

	"github.com/gin-gonic/gin"
)

type EventsHandler struct {
	*ResourceHandler
	events *dashboard.EventsView
}

type topicRequest struct {
	Topic string `json:"topic"`
}

type intervalRequest struct {
	IntervalMS int `json:"interval_ms" binding:"required"`
}

func NewEventsHandler(events *dashboard.EventsView, logger *logger.Logger) *EventsHandler {
	return &EventsHandler{
		ResourceHandler: &ResourceHandler{
			view:   events,
			state:  func() interface{} { return events.State() },
			logger: logger,
		},
		events: events,
	}
}

// SetTopic filters the feed. An empty topic shows every event.
func (h *EventsHandler) SetTopic(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, h.events.SetTopic(c.Request.Context(), req.Topic))
}

func (h *EventsHandler) StartPolling(c *gin.Context) {
	if err := h.events.Load(c.Request.Context()); err != nil {
		h.respond(c, err)
		return
	}
	h.events.StartPolling()
	h.logger.Info("Event polling started")
	h.respond(c, nil)
}

func (h *EventsHandler) StopPolling(c *gin.Context) {
	h.events.StopPolling()
	h.logger.Info("Event polling stopped")
	h.respond(c, nil)
}

func (h *EventsHandler) SetPollInterval(c *gin.Context) {
	var req intervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.respond(c, h.events.SetPollInterval(time.Duration(req.IntervalMS)*time.Millisecond))
}
