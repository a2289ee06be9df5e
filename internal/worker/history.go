package worker

import (
	"context"

	"shopdash/internal/models"
)

// HistoryWriter records emitted notifications straight into the history
// table. The API uses it in place of the Publisher when Kafka is not
// configured, so history is kept either way.
type HistoryWriter struct {
	recorder Recorder
	shop     string
}

func NewHistoryWriter(shop string, recorder Recorder) *HistoryWriter {
	return &HistoryWriter{
		recorder: recorder,
		shop:     shop,
	}
}

func (h *HistoryWriter) PublishNotification(ctx context.Context, n models.Notification) error {
	return h.recorder.RecordNotification(ctx, models.NewNotificationRecord(n, h.shop))
}
