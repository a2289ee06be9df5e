package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shopdash/internal/config"
	"shopdash/internal/logger"
	"shopdash/internal/models"

	"github.com/segmentio/kafka-go"
)

var ErrKafkaDisabled = errors.New("kafka brokers are not configured")

// Recorder stores notification history. *database.Database satisfies it.
type Recorder interface {
	RecordNotification(ctx context.Context, record *models.NotificationRecord) error
}

// Worker consumes the notifications topic into the history table.
type Worker struct {
	config   *config.Config
	logger   *logger.Logger
	reader   *kafka.Reader
	recorder Recorder
}

func New(cfg *config.Config, logger *logger.Logger, recorder Recorder) (*Worker, error) {
	if !cfg.KafkaEnabled() {
		return nil, ErrKafkaDisabled
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers(),
		GroupID:        "shopdash-worker",
		Topic:          cfg.KafkaNotificationsTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:   cfg,
		logger:   logger.Named("worker"),
		reader:   reader,
		recorder: recorder,
	}, nil
}

// Run reads messages until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Worker started, listening on %s...", w.config.KafkaNotificationsTopic)

	for {
		message, err := w.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		if err := w.handle(ctx, message); err != nil {
			w.logger.Error("Failed to process message at offset %d: %v", message.Offset, err)
			continue
		}

		w.logger.Debug("Notification recorded")
	}
}

func (w *Worker) Stop() error {
	w.logger.Info("Stopping worker...")
	return w.reader.Close()
}

func (w *Worker) handle(ctx context.Context, message kafka.Message) error {
	return handleMessage(ctx, w.recorder, message)
}

func handleMessage(ctx context.Context, recorder Recorder, message kafka.Message) error {
	var msg NotificationMessage
	if err := json.Unmarshal(message.Value, &msg); err != nil {
		return fmt.Errorf("failed to parse notification: %w", err)
	}
	if msg.Notification.EventID == "" {
		return errors.New("notification has no event id")
	}

	record := models.NewNotificationRecord(msg.Notification, msg.ShopDomain)
	if record.EmittedAt.IsZero() {
		record.EmittedAt = msg.PublishedAt
	}
	return recorder.RecordNotification(ctx, record)
}
