package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"shopdash/internal/logger"
)

var ErrInvalidInterval = errors.New("poll interval must be positive")

// TickFunc performs one poll. It receives a context that is cancelled when
// polling stops. It must not call back into the Poller.
type TickFunc func(ctx context.Context)

// Poller runs a TickFunc immediately on Start and then on a fixed interval.
//
// Active records whether the caller wants polling; Suspended pauses it
// without clearing that intent, so Resume picks up where Start left off.
type Poller struct {
	tick   TickFunc
	logger *logger.Logger

	mu        sync.Mutex
	interval  time.Duration
	active    bool
	suspended bool
	closed    bool
	cancel    context.CancelFunc
	done      chan struct{}
}

type Status struct {
	Active    bool          `json:"active"`
	Suspended bool          `json:"suspended"`
	Running   bool          `json:"running"`
	Interval  time.Duration `json:"interval"`
}

func New(interval time.Duration, tick TickFunc, logger *logger.Logger) *Poller {
	return &Poller{
		tick:     tick,
		logger:   logger,
		interval: interval,
	}
}

// Start begins polling with an immediate tick. Calling Start while already
// polling does nothing.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.active {
		return
	}
	p.active = true
	if !p.suspended {
		p.startLocked(true)
	}
}

// Stop halts polling. No tick is running once Stop returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = false
	p.stopLocked()
}

// SetInterval changes the period, restarting the loop if it is running.
func (p *Poller) SetInterval(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interval = interval
	p.restartLocked()
	return nil
}

// Restart re-arms a running loop with an immediate tick.
func (p *Poller) Restart() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restartLocked()
}

// Suspend pauses a running loop without forgetting that polling was asked for.
func (p *Poller) Suspend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.suspended {
		return
	}
	p.suspended = true
	if p.cancel != nil {
		p.logger.Debug("polling suspended")
	}
	p.stopLocked()
}

// Resume undoes Suspend. The next tick comes after one interval.
func (p *Poller) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.suspended {
		return
	}
	p.suspended = false
	if p.active && !p.closed {
		p.logger.Debug("polling resumed")
		p.startLocked(false)
	}
}

// Close stops polling for good.
func (p *Poller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.active = false
	p.stopLocked()
}

func (p *Poller) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		Active:    p.active,
		Suspended: p.suspended,
		Running:   p.cancel != nil,
		Interval:  p.interval,
	}
}

func (p *Poller) restartLocked() {
	if p.cancel == nil {
		return
	}
	p.stopLocked()
	p.startLocked(true)
}

func (p *Poller) startLocked(immediate bool) {
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	p.logger.Debug("polling every %s", p.interval)
	go p.run(ctx, p.interval, immediate, done)
}

func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

func (p *Poller) run(ctx context.Context, interval time.Duration, immediate bool, done chan struct{}) {
	defer close(done)

	if immediate {
		p.tick(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			p.tick(ctx)
		}
	}
}
