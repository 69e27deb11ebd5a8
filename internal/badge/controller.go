// Package badge maintains a consumer's view of the unread notification
// count. Each Controller instance owns its own copy of the count,
// deliberately unshared; instances converge through the event protocol
// rather than shared memory.
package badge

import (
	"context"
	gosync "sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/lifeline/internal/core/eventbus"
)

// DefaultPollInterval is how often a controller re-fetches the count
// when no events arrive.
const DefaultPollInterval = 60 * time.Second

// Syncer is the authoritative count source, satisfied by sync.Service.
type Syncer interface {
	RefreshUnreadCount(ctx context.Context) (int, error)
}

// State is the controller lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateDisposed
)

// Options tunes a Controller.
type Options struct {
	// Interval between poll ticks. Zero means DefaultPollInterval.
	Interval time.Duration

	// Seed is displayed before the first fetch resolves, e.g. the last
	// cached count. Negative seeds are clamped to zero.
	Seed int

	Logger zerolog.Logger
}

// Controller reconciles three signal sources into one displayed count:
// the initial fetch, the recurring poll, and bus events. Updates are
// applied in arrival order; the latest applied signal wins. The count
// never goes negative and is never blanked by a transient failure.
type Controller struct {
	syncer   Syncer
	bus      *eventbus.EventBus
	log      zerolog.Logger
	interval time.Duration

	mu       gosync.Mutex
	state    State
	count    int
	onChange func(int)

	subs       []*eventbus.Subscription
	cancelPoll context.CancelFunc
}

// NewController creates a stopped controller. Call Start to activate.
func NewController(syncer Syncer, bus *eventbus.EventBus, opts Options) *Controller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Controller{
		syncer:   syncer,
		bus:      bus,
		log:      opts.Logger,
		interval: interval,
		count:    max(0, opts.Seed),
	}
}

// OnChange registers a render hook invoked with the new count whenever
// the displayed value changes. Must be called before Start.
func (c *Controller) OnChange(fn func(int)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Start subscribes to bus events, performs an immediate authoritative
// fetch, and arms the poll ticker. An initial fetch failure is swallowed
// and the seed value stays on display; a badge is advisory UI, not a
// critical path. Start is a no-op unless the controller is fresh.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateUninitialized {
		c.mu.Unlock()
		return
	}
	c.state = StateLoading

	c.subs = []*eventbus.Subscription{
		c.bus.SubscribeNotificationRead(c.handleOneRead),
		c.bus.SubscribeAllNotificationsRead(c.handleAllRead),
		c.bus.SubscribeCountUpdated(c.handleCountUpdated),
	}

	pollCtx, cancel := context.WithCancel(ctx)
	c.cancelPoll = cancel
	c.mu.Unlock()

	c.fetch(ctx)

	go c.poll(pollCtx)
}

// Stop tears the controller down: unsubscribes all events and cancels
// the poll ticker. Idempotent; every method is a no-op afterwards.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state == StateDisposed {
		c.mu.Unlock()
		return
	}
	c.state = StateDisposed
	subs := c.subs
	c.subs = nil
	cancel := c.cancelPoll
	c.cancelPoll = nil
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
}

// Count returns the currently displayed unread count.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// handleOneRead reacts to a single mark-read. One consumer's read only
// says the count is stale, not what it is now, so re-fetch rather than
// decrement locally. The fetch runs off the publisher's goroutine.
func (c *Controller) handleOneRead(eventbus.NotificationReadPayload) {
	go c.fetch(context.Background())
}

// handleAllRead applies zero immediately; this event's semantics
// guarantee the new count without a round trip.
func (c *Controller) handleAllRead(eventbus.AllNotificationsReadPayload) {
	c.apply(0)
}

// handleCountUpdated applies an authoritative value in arrival order.
func (c *Controller) handleCountUpdated(p eventbus.CountUpdatedPayload) {
	c.apply(p.Count)
}

// poll re-fetches on a fixed interval until cancelled.
func (c *Controller) poll(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.fetch(ctx)
		}
	}
}

// fetch performs one authoritative count fetch. Errors are logged and
// swallowed; the previously displayed count stays visible.
func (c *Controller) fetch(ctx context.Context) {
	c.mu.Lock()
	if c.state == StateDisposed {
		c.mu.Unlock()
		return
	}
	if c.state == StateReady {
		c.state = StateLoading
	}
	c.mu.Unlock()

	count, err := c.syncer.RefreshUnreadCount(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("badge count fetch failed, keeping last value")
		c.mu.Lock()
		if c.state == StateLoading {
			c.state = StateReady
		}
		c.mu.Unlock()
		return
	}

	c.apply(count)
}

// apply sets the displayed count, clamped to zero. The server is the
// source of truth, but a malformed event must never render a negative
// badge.
func (c *Controller) apply(count int) {
	count = max(0, count)

	c.mu.Lock()
	if c.state == StateDisposed {
		c.mu.Unlock()
		return
	}
	c.state = StateReady
	changed := c.count != count
	c.count = count
	fn := c.onChange
	c.mu.Unlock()

	if changed && fn != nil {
		fn(count)
	}
}
