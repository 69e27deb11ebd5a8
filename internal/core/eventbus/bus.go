// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within lifeline.
//
// Dispatch is synchronous: Publish invokes every handler registered for
// the event, in subscription order, before returning. A panicking
// handler is recovered and reported via OnPanic hooks without stopping
// the remaining handlers.
package eventbus

import "sync"

// Event identifies an event type on the bus.
type Event string

// Handler receives the payload published for an event.
type Handler func(payload any)

type registration struct {
	id      uint64
	handler Handler
}

// EventBus is a process-wide synchronous pub/sub bus. The zero value is
// not usable; construct with New. One instance is created at process
// start and shared by reference, never torn down.
type EventBus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Event][]registration

	hooks hooks
}

// New creates an empty EventBus.
func New() *EventBus {
	return &EventBus{subs: make(map[Event][]registration)}
}

// Subscribe registers handler for event and returns a handle used to
// remove the registration. It never fails.
func (bus *EventBus) Subscribe(event Event, handler Handler) *Subscription {
	bus.mu.Lock()
	bus.nextID++
	id := bus.nextID
	bus.subs[event] = append(bus.subs[event], registration{id: id, handler: handler})
	bus.mu.Unlock()

	bus.runOnSubscribe(event)

	return &Subscription{bus: bus, event: event, id: id}
}

// Publish invokes all handlers currently subscribed to event, in
// subscription order. Handlers run synchronously; a handler panic is
// isolated and does not prevent later handlers from running.
func (bus *EventBus) Publish(event Event, payload any) {
	bus.mu.Lock()
	regs := make([]registration, len(bus.subs[event]))
	copy(regs, bus.subs[event])
	bus.mu.Unlock()

	bus.runOnPublish(event, payload)

	for _, reg := range regs {
		bus.dispatch(event, payload, reg.handler)
	}
}

func (bus *EventBus) dispatch(event Event, payload any, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(event, payload, r)
		}
	}()
	handler(payload)
}

func (bus *EventBus) unsubscribe(event Event, id uint64) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	regs := bus.subs[event]
	for i, reg := range regs {
		if reg.id == id {
			bus.subs[event] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus   *EventBus
	event Event
	once  sync.Once
	id    uint64
}

// Unsubscribe removes exactly the matching registration. Calling it
// more than once is a no-op, not an error.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.once.Do(func() {
		s.bus.unsubscribe(s.event, s.id)
	})
}
