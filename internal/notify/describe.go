package notify

import (
	"encoding/json"
	"fmt"

	"shopdash/internal/models"
)

var topicTitles = map[string]string{
	"orders/create":           "New order",
	"orders/updated":          "Order updated",
	"orders/paid":             "Order paid",
	"orders/fulfilled":        "Order fulfilled",
	"orders/cancelled":        "Order cancelled",
	"products/create":         "New product",
	"products/update":         "Product updated",
	"products/delete":         "Product deleted",
	"customers/create":        "New customer",
	"customers/update":        "Customer updated",
	"customers/delete":        "Customer deleted",
	"inventory_levels/update": "Inventory updated",
	"app/uninstalled":         "App uninstalled",
}

// payloadSummary holds the payload fields worth quoting in a toast.
type payloadSummary struct {
	Name        string      `json:"name"`
	OrderNumber json.Number `json:"order_number"`
	Title       string      `json:"title"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
}

// Describe picks the title, message and severity for an event's toast.
func Describe(e models.WebhookEvent) (string, string, models.NotificationSeverity) {
	title, ok := topicTitles[e.Topic]
	if !ok {
		title = "Webhook received"
	}

	severity := models.SeverityInfo
	switch {
	case e.Failed():
		severity = models.SeverityError
	case e.Action() == "delete" || e.Action() == "cancelled" || e.Action() == "uninstalled":
		severity = models.SeverityWarning
	case e.Action() == "create" || e.Action() == "paid":
		severity = models.SeveritySuccess
	}

	if e.Failed() {
		msg := e.ErrorMessage
		if msg == "" {
			msg = "processing failed"
		}
		return title, fmt.Sprintf("%s: %s", e.Topic, msg), severity
	}

	return title, summarize(e), severity
}

func summarize(e models.WebhookEvent) string {
	var p payloadSummary
	if len(e.Payload) > 0 {
		// Payload shape varies by topic; a partial decode is fine.
		_ = json.Unmarshal(e.Payload, &p)
	}

	switch e.Resource() {
	case "orders":
		ref := p.Name
		if ref == "" && p.OrderNumber != "" {
			ref = "#" + p.OrderNumber.String()
		}
		if ref != "" && p.Email != "" {
			return fmt.Sprintf("Order %s from %s", ref, p.Email)
		}
		if ref != "" {
			return "Order " + ref
		}
	case "products":
		if p.Title != "" {
			return p.Title
		}
	case "customers":
		name := p.FirstName
		if p.LastName != "" {
			name += " " + p.LastName
		}
		if name != "" {
			return name
		}
		if p.Email != "" {
			return p.Email
		}
	}
	return fmt.Sprintf("%s on %s", e.Topic, e.ShopDomain)
}
