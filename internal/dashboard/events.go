package dashboard

import (
	"context"
	"sync"
	"time"

	"shopdash/internal/logger"
	"shopdash/internal/models"
	"shopdash/internal/notify"
	"shopdash/internal/pager"
	"shopdash/internal/poller"
	"shopdash/internal/services/backend"
)

type EventsAPI interface {
	ListEvents(ctx context.Context, params backend.EventParams) (models.Page[models.WebhookEvent], error)
}

// EventsView is the webhook events screen. It polls the first page and feeds
// what it sees to the notification tracker. Polling is suspended while the
// user is paged away from page one so incoming data does not move them.
type EventsView struct {
	pager   *pager.Pager[models.WebhookEvent]
	poller  *poller.Poller
	tracker *notify.Tracker
	logger  *logger.Logger

	mu     sync.Mutex
	topic  string
	primed bool
}

type EventsState struct {
	pager.State[models.WebhookEvent]
	Topic   string            `json:"topic"`
	Polling poller.Status     `json:"polling"`
	Stats   models.EventStats `json:"stats"`
}

func NewEventsView(api EventsAPI, pageSize int, interval time.Duration, tracker *notify.Tracker, logger *logger.Logger) *EventsView {
	v := &EventsView{
		tracker: tracker,
		logger:  logger.Named("events"),
	}
	v.pager = pager.New(pageSize, func(ctx context.Context, req pager.Request) (models.Page[models.WebhookEvent], error) {
		return api.ListEvents(ctx, backend.EventParams{
			Limit:  req.First,
			Cursor: req.After,
			Topic:  v.Topic(),
		})
	}, pager.WithErrorFormatter[models.WebhookEvent](backend.DisplayMessage))
	v.poller = poller.New(interval, v.poll, v.logger)
	return v
}

// Load fetches the first page on first use. Events already present are
// marked seen without raising notifications.
func (v *EventsView) Load(ctx context.Context) error {
	v.mu.Lock()
	primed := v.primed
	v.mu.Unlock()

	if err := v.pager.Load(ctx); err != nil {
		return v.logged("load", err)
	}
	if !primed {
		v.observe(ctx)
	}
	return nil
}

func (v *EventsView) Next(ctx context.Context) error {
	err := v.pager.Next(ctx)
	v.syncPolling()
	return v.logged("next page", err)
}

func (v *EventsView) Prev(ctx context.Context) error {
	err := v.pager.Prev(ctx)
	v.syncPolling()
	return v.logged("previous page", err)
}

// SetPageSize returns to page one at the new size. Older events a larger
// page reveals are history and are primed.
func (v *EventsView) SetPageSize(ctx context.Context, size int) error {
	err := v.pager.SetPageSize(ctx, size)
	v.syncPolling()
	if err != nil {
		return v.logged("set page size", err)
	}
	v.tracker.Prime(v.pager.Snapshot().Items)
	return nil
}

// Refresh returns to page one and notifies about anything new on it.
func (v *EventsView) Refresh(ctx context.Context) error {
	err := v.pager.Refresh(ctx)
	v.syncPolling()
	if err != nil {
		return v.logged("refresh", err)
	}
	v.observe(ctx)
	return nil
}

// SetTopic filters the feed to one topic ("" for all). Events revealed by the
// new filter are history, not news, so they are primed rather than notified.
// A running poll loop is restarted.
func (v *EventsView) SetTopic(ctx context.Context, topic string) error {
	v.mu.Lock()
	v.topic = topic
	v.primed = true
	v.mu.Unlock()

	err := v.pager.Refresh(ctx)
	v.syncPolling()
	if err != nil {
		return v.logged("set topic", err)
	}
	v.tracker.Prime(v.pager.Snapshot().Items)
	v.poller.Restart()
	return nil
}

func (v *EventsView) StartPolling() {
	v.syncPolling()
	v.poller.Start()
}

func (v *EventsView) StopPolling() {
	v.poller.Stop()
}

func (v *EventsView) SetPollInterval(interval time.Duration) error {
	return v.poller.SetInterval(interval)
}

func (v *EventsView) Topic() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.topic
}

func (v *EventsView) State() EventsState {
	page := v.pager.Snapshot()
	return EventsState{
		State:   page,
		Topic:   v.Topic(),
		Polling: v.poller.Status(),
		Stats:   models.SummarizeEvents(page.Items),
	}
}

// Close stops the poll loop.
func (v *EventsView) Close() {
	v.poller.Close()
}

func (v *EventsView) poll(ctx context.Context) {
	if !v.pager.OnFirstPage() {
		return
	}
	if err := v.pager.Reload(ctx); err != nil {
		if ctx.Err() == nil {
			v.logger.Error("poll failed: %v", err)
		}
		return
	}
	v.observe(ctx)
}

// observe hands page one to the tracker. The very first page seen is only
// primed.
func (v *EventsView) observe(ctx context.Context) {
	items := v.pager.Snapshot().Items

	v.mu.Lock()
	prime := !v.primed
	v.primed = true
	v.mu.Unlock()

	if prime {
		v.tracker.Prime(items)
		return
	}
	if emitted := v.tracker.Observe(ctx, items); len(emitted) > 0 {
		v.logger.Info("%d new webhook events", len(emitted))
	}
}

func (v *EventsView) syncPolling() {
	if v.pager.OnFirstPage() {
		v.poller.Resume()
	} else {
		v.poller.Suspend()
	}
}

func (v *EventsView) logged(op string, err error) error {
	if err != nil {
		v.logger.Error("%s failed: %v", op, err)
	}
	return err
}
