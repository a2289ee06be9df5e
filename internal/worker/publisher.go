package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shopdash/internal/config"
	"shopdash/internal/logger"
	"shopdash/internal/models"

	"github.com/segmentio/kafka-go"
)

// NotificationMessage is the Kafka payload for one emitted notification.
type NotificationMessage struct {
	ShopDomain   string              `json:"shop_domain"`
	Notification models.Notification `json:"notification"`
	PublishedAt  time.Time           `json:"published_at"`
}

// Publisher fans emitted notifications out to Kafka. With no brokers
// configured it accepts and drops everything.
type Publisher struct {
	writer *kafka.Writer
	shop   string
	logger *logger.Logger
}

func NewPublisher(cfg *config.Config, logger *logger.Logger) *Publisher {
	p := &Publisher{
		shop:   cfg.ShopDomain,
		logger: logger.Named("publisher"),
	}
	if !cfg.KafkaEnabled() {
		p.logger.Info("Kafka not configured, notifications are not published")
		return p
	}

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers()...),
		Topic:        cfg.KafkaNotificationsTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}
	return p
}

func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

// PublishNotification writes n keyed by its event ID so that every
// notification for an event lands on the same partition.
func (p *Publisher) PublishNotification(ctx context.Context, n models.Notification) error {
	if p.writer == nil {
		return nil
	}

	msg, err := encodeNotification(p.shop, n, time.Now())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	p.logger.Debug("Published notification %s for event %s", n.ID, n.EventID)
	return nil
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func encodeNotification(shop string, n models.Notification, now time.Time) (kafka.Message, error) {
	value, err := json.Marshal(NotificationMessage{
		ShopDomain:   shop,
		Notification: n,
		PublishedAt:  now,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode notification: %w", err)
	}
	return kafka.Message{
		Key:   []byte(n.EventID),
		Value: value,
		Time:  now,
	}, nil
}
