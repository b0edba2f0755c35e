package cache

import (
	"context"
	"time"
)

// Poller runs a refresh function on a fixed interval as a correctness
// backstop for silently dropped push events. Stop is mandatory on view
// teardown so an abandoned view never patches a cache it no longer owns.
type Poller struct {
	fn     func(context.Context)
	cancel context.CancelFunc
	setCh  chan time.Duration
}

// NewPoller creates a poller that invokes fn on every tick.
func NewPoller(fn func(context.Context)) *Poller {
	return &Poller{
		fn:    fn,
		setCh: make(chan time.Duration, 1),
	}
}

// Start begins ticking at the given interval. Calling Start on a running
// poller restarts it.
func (p *Poller) Start(ctx context.Context, interval time.Duration) {
	p.Stop()
	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx, interval)
}

// SetInterval changes the tick interval of a running poller. Views halve
// the interval while the realtime channel is disconnected.
func (p *Poller) SetInterval(d time.Duration) {
	select {
	case p.setCh <- d:
	default:
	}
}

// Stop halts the poller. Safe to call when not running.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Poller) loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.fn(ctx)
		case d := <-p.setCh:
			ticker.Reset(d)
		case <-ctx.Done():
			return
		}
	}
}
