package badge_test

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/lifeline/internal/badge"
	"github.com/colonyops/lifeline/internal/core/eventbus"
)

// countSource returns scripted counts/errors in sequence, repeating the
// last entry once exhausted. It publishes count-updated on success the
// way the real sync service does.
type countSource struct {
	mu     gosync.Mutex
	bus    *eventbus.EventBus
	script []countResult
	calls  int
}

type countResult struct {
	count int
	err   error
}

func (s *countSource) RefreshUnreadCount(context.Context) (int, error) {
	s.mu.Lock()
	idx := s.calls
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	s.calls++
	res := s.script[idx]
	s.mu.Unlock()

	if res.err != nil {
		return 0, res.err
	}
	if s.bus != nil {
		s.bus.PublishCountUpdated(eventbus.CountUpdatedPayload{Count: res.count})
	}
	return res.count, nil
}

func (s *countSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newController(t *testing.T, bus *eventbus.EventBus, src badge.Syncer, opts badge.Options) *badge.Controller {
	t.Helper()
	opts.Logger = zerolog.Nop()
	c := badge.NewController(src, bus, opts)
	t.Cleanup(c.Stop)
	return c
}

func TestController_StartFetchesImmediately(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{bus: bus, script: []countResult{{count: 2}}}
	c := newController(t, bus, src, badge.Options{})

	c.Start(context.Background())

	assert.Equal(t, 2, c.Count())
	assert.Equal(t, badge.StateReady, c.State())
}

func TestController_InitialFetchFailureKeepsSeed(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{script: []countResult{{err: errors.New("offline")}}}
	c := newController(t, bus, src, badge.Options{Seed: 4})

	c.Start(context.Background())

	assert.Equal(t, 4, c.Count(), "seed stays on display when the fetch fails")
}

func TestController_AllReadConvergesEveryInstance(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{bus: bus, script: []countResult{{count: 9}}}

	first := newController(t, bus, src, badge.Options{})
	second := newController(t, bus, src, badge.Options{})
	first.Start(context.Background())
	second.Start(context.Background())

	bus.PublishAllNotificationsRead(eventbus.AllNotificationsReadPayload{})

	assert.Equal(t, 0, first.Count())
	assert.Equal(t, 0, second.Count())
}

func TestController_NegativeCountIsClamped(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{bus: bus, script: []countResult{{count: 1}}}
	c := newController(t, bus, src, badge.Options{})
	c.Start(context.Background())

	bus.PublishCountUpdated(eventbus.CountUpdatedPayload{Count: -1})

	assert.Equal(t, 0, c.Count())
}

func TestController_LastArrivalWins(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{bus: bus, script: []countResult{{count: 5}}}
	c := newController(t, bus, src, badge.Options{})
	c.Start(context.Background())

	// Two authoritative updates dispatched 5 then 3: the value from the
	// later-dispatched event sticks, regardless of which remote call
	// produced it first.
	bus.PublishCountUpdated(eventbus.CountUpdatedPayload{Count: 5})
	bus.PublishCountUpdated(eventbus.CountUpdatedPayload{Count: 3})

	assert.Equal(t, 3, c.Count())
}

func TestController_OneReadTriggersRefetch(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{bus: bus, script: []countResult{{count: 3}, {count: 2}}}
	c := newController(t, bus, src, badge.Options{})
	c.Start(context.Background())
	require.Equal(t, 3, c.Count())

	bus.PublishNotificationRead(eventbus.NotificationReadPayload{NotificationID: "n1"})

	// The re-fetch runs off the publisher's goroutine.
	assert.Eventually(t, func() bool { return c.Count() == 2 }, time.Second, 5*time.Millisecond)
}

func TestController_PollTickFailureRetainsCount(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{bus: bus, script: []countResult{{count: 7}, {err: errors.New("timeout")}}}
	c := newController(t, bus, src, badge.Options{Interval: 10 * time.Millisecond})
	c.Start(context.Background())
	require.Equal(t, 7, c.Count())

	// Wait for at least one failing tick.
	assert.Eventually(t, func() bool { return src.callCount() >= 2 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, 7, c.Count())
	assert.Equal(t, badge.StateReady, c.State())
}

func TestController_PollRecoversAfterFailure(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{bus: bus, script: []countResult{
		{count: 7},
		{err: errors.New("timeout")},
		{count: 1},
	}}
	c := newController(t, bus, src, badge.Options{Interval: 10 * time.Millisecond})
	c.Start(context.Background())

	assert.Eventually(t, func() bool { return c.Count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestController_StopIsIdempotentAndDisposes(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{bus: bus, script: []countResult{{count: 5}}}
	c := newController(t, bus, src, badge.Options{Interval: 10 * time.Millisecond})
	c.Start(context.Background())

	c.Stop()
	c.Stop() // second stop is a no-op

	assert.Equal(t, badge.StateDisposed, c.State())
	calls := src.callCount()

	// Events after disposal are ignored.
	bus.PublishCountUpdated(eventbus.CountUpdatedPayload{Count: 99})
	bus.PublishNotificationRead(eventbus.NotificationReadPayload{NotificationID: "n1"})
	assert.Equal(t, 5, c.Count())

	// The poll timer no longer fires.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, src.callCount())

	// Start after disposal is a no-op too.
	c.Start(context.Background())
	assert.Equal(t, badge.StateDisposed, c.State())
}

func TestController_OnChangeFiresOnTransitions(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{bus: bus, script: []countResult{{count: 2}}}
	c := newController(t, bus, src, badge.Options{})

	var (
		mu   gosync.Mutex
		seen []int
	)
	c.OnChange(func(n int) {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
	})

	c.Start(context.Background())
	bus.PublishCountUpdated(eventbus.CountUpdatedPayload{Count: 2}) // unchanged, no callback
	bus.PublishCountUpdated(eventbus.CountUpdatedPayload{Count: 6})
	bus.PublishAllNotificationsRead(eventbus.AllNotificationsReadPayload{})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2, 6, 0}, seen)
}

// The full lifecycle: initial fetch, push-driven refresh, single read,
// then mark-all-read.
func TestController_EndToEnd(t *testing.T) {
	bus := eventbus.New()
	src := &countSource{bus: bus, script: []countResult{
		{count: 2}, // initial fetch
		{count: 3}, // refresh after push ingest
		{count: 2}, // refetch after one read
	}}
	c := newController(t, bus, src, badge.Options{})

	c.Start(context.Background())
	require.Equal(t, 2, c.Count())

	// Push event ingested: new_notification fires, then the async
	// refresh lands the new authoritative count.
	bus.PublishNewNotification(eventbus.NewNotificationPayload{})
	_, err := src.RefreshUnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, c.Count())

	// User marks one read: controller refetches.
	bus.PublishNotificationRead(eventbus.NotificationReadPayload{NotificationID: "n1"})
	assert.Eventually(t, func() bool { return c.Count() == 2 }, time.Second, 5*time.Millisecond)

	// Mark-all-read zeroes immediately.
	bus.PublishAllNotificationsRead(eventbus.AllNotificationsReadPayload{})
	bus.PublishCountUpdated(eventbus.CountUpdatedPayload{Count: 0})
	assert.Equal(t, 0, c.Count())
}
