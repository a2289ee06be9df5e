package models

import (
	"encoding/json"
	"strings"
	"time"
)

// WebhookEvent is a Shopify webhook delivery as recorded by the events service.
type WebhookEvent struct {
	ID           string          `json:"id"`
	Topic        string          `json:"topic"`
	ShopDomain   string          `json:"shopDomain"`
	CreatedAt    time.Time       `json:"createdAt"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	Status       string          `json:"status,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

// Resource is the part of the topic before the slash ("orders" for "orders/create").
func (e WebhookEvent) Resource() string {
	resource, _, _ := strings.Cut(e.Topic, "/")
	return resource
}

// Action is the part of the topic after the slash.
func (e WebhookEvent) Action() string {
	_, action, _ := strings.Cut(e.Topic, "/")
	return action
}

// Failed is true when the events service could not process the delivery.
func (e WebhookEvent) Failed() bool {
	return e.ErrorMessage != "" || strings.EqualFold(e.Status, "failed")
}

type EventStats struct {
	Total   int            `json:"total"`
	Failed  int            `json:"failed"`
	ByTopic map[string]int `json:"byTopic"`
}

// SummarizeEvents counts the given page of events by topic.
func SummarizeEvents(events []WebhookEvent) EventStats {
	stats := EventStats{ByTopic: make(map[string]int)}
	for _, e := range events {
		stats.Total++
		stats.ByTopic[e.Topic]++
		if e.Failed() {
			stats.Failed++
		}
	}
	return stats
}
