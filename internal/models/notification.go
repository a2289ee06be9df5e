package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "INFO"
	SeveritySuccess NotificationSeverity = "SUCCESS"
	SeverityWarning NotificationSeverity = "WARNING"
	SeverityError   NotificationSeverity = "ERROR"
)

// Notification is a toast raised for a webhook event.
type Notification struct {
	ID        string               `json:"id"`
	EventID   string               `json:"event_id"`
	Topic     string               `json:"topic"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Severity  NotificationSeverity `json:"severity"`
	CreatedAt time.Time            `json:"created_at"`
	DismissAt time.Time            `json:"dismiss_at"`
}

// NotificationRecord is the persisted history row for an emitted notification.
type NotificationRecord struct {
	ID         string               `json:"id" gorm:"primaryKey"`
	EventID    string               `json:"event_id" gorm:"index;not null"`
	ShopDomain string               `json:"shop_domain" gorm:"index"`
	Topic      string               `json:"topic" gorm:"not null"`
	Title      string               `json:"title"`
	Message    string               `json:"message"`
	Severity   NotificationSeverity `json:"severity"`
	EmittedAt  time.Time            `json:"emitted_at" gorm:"index"`
	CreatedAt  time.Time            `json:"created_at"`
}

func (r *NotificationRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// NewNotificationRecord copies the fields worth keeping from n.
func NewNotificationRecord(n Notification, shopDomain string) *NotificationRecord {
	return &NotificationRecord{
		ID:         n.ID,
		EventID:    n.EventID,
		ShopDomain: shopDomain,
		Topic:      n.Topic,
		Title:      n.Title,
		Message:    n.Message,
		Severity:   n.Severity,
		EmittedAt:  n.CreatedAt,
	}
}
