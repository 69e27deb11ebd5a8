// Package testbus provides test utilities for the event bus.
// It wraps a real EventBus with event recording and assertion helpers.
package testbus

import (
	"sync"
	"testing"

	"github.com/colonyops/lifeline/internal/core/eventbus"
)

// RecordedEvent holds a captured event name and payload.
type RecordedEvent struct {
	Event   eventbus.Event
	Payload any
}

// Bus wraps a real EventBus with event recording for tests. Dispatch is
// synchronous, so every event published before an assertion is already
// recorded when the assertion runs.
type Bus struct {
	*eventbus.EventBus

	mu     sync.Mutex
	events []RecordedEvent
}

// New creates a test bus subscribed to all event types for recording.
func New(t *testing.T) *Bus {
	t.Helper()

	tb := &Bus{EventBus: eventbus.New()}

	for _, event := range []eventbus.Event{
		eventbus.EventNotificationRead,
		eventbus.EventAllNotificationsRead,
		eventbus.EventCountUpdated,
		eventbus.EventNewNotification,
	} {
		event := event
		tb.Subscribe(event, func(payload any) {
			tb.record(event, payload)
		})
	}

	return tb
}

func (tb *Bus) record(event eventbus.Event, payload any) {
	tb.mu.Lock()
	tb.events = append(tb.events, RecordedEvent{Event: event, Payload: payload})
	tb.mu.Unlock()
}

// Events returns a copy of all recorded events in publish order.
func (tb *Bus) Events() []RecordedEvent {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	out := make([]RecordedEvent, len(tb.events))
	copy(out, tb.events)
	return out
}

// Count returns the number of recorded events matching event.
func (tb *Bus) Count(event eventbus.Event) int {
	n := 0
	for _, e := range tb.Events() {
		if e.Event == event {
			n++
		}
	}
	return n
}

// AssertPublished fails the test if event was never recorded.
func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	if tb.Count(event) == 0 {
		t.Fatalf("expected event %q to be published", event)
	}
}

// AssertNotPublished fails the test if event was recorded.
func (tb *Bus) AssertNotPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	if n := tb.Count(event); n > 0 {
		t.Fatalf("expected event %q not to be published, recorded %d", event, n)
	}
}

// Reset discards all recorded events.
func (tb *Bus) Reset() {
	tb.mu.Lock()
	tb.events = nil
	tb.mu.Unlock()
}
