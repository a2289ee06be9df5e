// Package notify turns webhook events into toast notifications.
//
// The events feed is re-delivered on every poll, so the Tracker remembers
// every event id it has seen for the lifetime of the process and raises at
// most one notification per id.
package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"shopdash/internal/logger"
	"shopdash/internal/models"

	"github.com/google/uuid"
)

// Sink receives each notification once, after it has been queued.
type Sink interface {
	PublishNotification(ctx context.Context, n models.Notification) error
}

type Options struct {
	Capacity        int
	AutoDismiss     time.Duration // zero keeps notifications until dismissed or purged
	MaxAge          time.Duration
	CleanupInterval time.Duration
	Now             func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Capacity <= 0 {
		o.Capacity = 5
	}
	if o.MaxAge <= 0 {
		o.MaxAge = 30 * time.Second
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = 10 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

type Tracker struct {
	opts   Options
	sink   Sink
	logger *logger.Logger

	mu    sync.Mutex
	seen  map[string]struct{}
	queue []models.Notification // newest first
}

func NewTracker(opts Options, sink Sink, logger *logger.Logger) *Tracker {
	return &Tracker{
		opts:   opts.withDefaults(),
		sink:   sink,
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

// Prime marks events as seen without notifying, so history already on screen
// when the dashboard opens does not raise toasts.
func (t *Tracker) Prime(events []models.WebhookEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range events {
		if e.ID != "" {
			t.seen[e.ID] = struct{}{}
		}
	}
}

// Observe raises a notification for every event id not seen before and
// returns the new notifications, newest first.
func (t *Tracker) Observe(ctx context.Context, events []models.WebhookEvent) []models.Notification {
	fresh := make([]models.WebhookEvent, 0, len(events))

	t.mu.Lock()
	for _, e := range events {
		if e.ID == "" {
			continue
		}
		if _, ok := t.seen[e.ID]; ok {
			continue
		}
		t.seen[e.ID] = struct{}{}
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		t.mu.Unlock()
		return nil
	}

	// Oldest first so that prepending leaves the newest at the head.
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].CreatedAt.Before(fresh[j].CreatedAt)
	})

	now := t.opts.Now()
	emitted := make([]models.Notification, 0, len(fresh))
	for _, e := range fresh {
		n := t.newNotification(e, now)
		t.queue = append([]models.Notification{n}, t.queue...)
		emitted = append([]models.Notification{n}, emitted...)
	}
	if len(t.queue) > t.opts.Capacity {
		t.queue = t.queue[:t.opts.Capacity]
	}
	t.mu.Unlock()

	t.publish(ctx, emitted)
	return emitted
}

// Active returns the visible notifications, newest first. Entries past their
// DismissAt are hidden at once even if Sweep has not removed them yet.
func (t *Tracker) Active() []models.Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.opts.Now()
	out := make([]models.Notification, 0, len(t.queue))
	for _, n := range t.queue {
		if !autoDismissed(n, now) {
			out = append(out, n)
		}
	}
	return out
}

func autoDismissed(n models.Notification, now time.Time) bool {
	return !n.DismissAt.IsZero() && !now.Before(n.DismissAt)
}

// Dismiss removes a notification. It reports whether id was visible.
func (t *Tracker) Dismiss(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.opts.Now()
	for i, n := range t.queue {
		if n.ID == id {
			if autoDismissed(n, now) {
				return false
			}
			t.queue = append(t.queue[:i], t.queue[i+1:]...)
			return true
		}
	}
	return false
}

func (t *Tracker) DismissAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.opts.Now()
	visible := 0
	for _, n := range t.queue {
		if !autoDismissed(n, now) {
			visible++
		}
	}
	t.queue = nil
	return visible
}

// Sweep drops notifications whose auto-dismiss time has passed or which are
// older than MaxAge. It returns how many were removed.
func (t *Tracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.queue[:0]
	removed := 0
	for _, n := range t.queue {
		expired := now.Sub(n.CreatedAt) > t.opts.MaxAge
		if expired || autoDismissed(n, now) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	t.queue = kept
	return removed
}

// SeenCount is the number of distinct event ids observed so far.
func (t *Tracker) SeenCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// Run sweeps every CleanupInterval until ctx is done.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := t.Sweep(t.opts.Now()); removed > 0 {
				t.logger.Debug("removed %d expired notifications", removed)
			}
		}
	}
}

func (t *Tracker) newNotification(e models.WebhookEvent, now time.Time) models.Notification {
	title, message, severity := Describe(e)
	n := models.Notification{
		ID:        uuid.New().String(),
		EventID:   e.ID,
		Topic:     e.Topic,
		Title:     title,
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
	}
	if t.opts.AutoDismiss > 0 {
		n.DismissAt = now.Add(t.opts.AutoDismiss)
	}
	return n
}

func (t *Tracker) publish(ctx context.Context, notifications []models.Notification) {
	if t.sink == nil {
		return
	}
	for _, n := range notifications {
		if err := t.sink.PublishNotification(ctx, n); err != nil {
			t.logger.Error("Failed to publish notification %s: %v", n.ID, err)
		}
	}
}
