package eventbus

import "github.com/colonyops/lifeline/internal/core/notify"

// The closed set of events carried by the bus.
const (
	// Keep list sorted A-Z
	EventAllNotificationsRead Event = "notification.read-all"
	EventCountUpdated         Event = "notification.count-updated"
	EventNewNotification      Event = "notification.new"
	EventNotificationRead     Event = "notification.read"
)

// NotificationReadPayload is emitted after a single notification is
// successfully marked read on the server.
type NotificationReadPayload struct {
	NotificationID string
}

// AllNotificationsReadPayload is emitted after a successful mark-all-read.
type AllNotificationsReadPayload struct{}

// CountUpdatedPayload carries an authoritative unread count.
type CountUpdatedPayload struct {
	Count int
}

// NewNotificationPayload is emitted when a push-delivered notification
// is ingested.
type NewNotificationPayload struct {
	Notification notify.Notification
}

// PublishNotificationRead publishes EventNotificationRead.
func (bus *EventBus) PublishNotificationRead(p NotificationReadPayload) {
	bus.Publish(EventNotificationRead, p)
}

// SubscribeNotificationRead registers a typed handler for EventNotificationRead.
func (bus *EventBus) SubscribeNotificationRead(fn func(NotificationReadPayload)) *Subscription {
	return bus.Subscribe(EventNotificationRead, func(payload any) {
		if p, ok := payload.(NotificationReadPayload); ok {
			fn(p)
		}
	})
}

// PublishAllNotificationsRead publishes EventAllNotificationsRead.
func (bus *EventBus) PublishAllNotificationsRead(p AllNotificationsReadPayload) {
	bus.Publish(EventAllNotificationsRead, p)
}

// SubscribeAllNotificationsRead registers a typed handler for EventAllNotificationsRead.
func (bus *EventBus) SubscribeAllNotificationsRead(fn func(AllNotificationsReadPayload)) *Subscription {
	return bus.Subscribe(EventAllNotificationsRead, func(payload any) {
		if p, ok := payload.(AllNotificationsReadPayload); ok {
			fn(p)
		}
	})
}

// PublishCountUpdated publishes EventCountUpdated.
func (bus *EventBus) PublishCountUpdated(p CountUpdatedPayload) {
	bus.Publish(EventCountUpdated, p)
}

// SubscribeCountUpdated registers a typed handler for EventCountUpdated.
func (bus *EventBus) SubscribeCountUpdated(fn func(CountUpdatedPayload)) *Subscription {
	return bus.Subscribe(EventCountUpdated, func(payload any) {
		if p, ok := payload.(CountUpdatedPayload); ok {
			fn(p)
		}
	})
}

// PublishNewNotification publishes EventNewNotification.
func (bus *EventBus) PublishNewNotification(p NewNotificationPayload) {
	bus.Publish(EventNewNotification, p)
}

// SubscribeNewNotification registers a typed handler for EventNewNotification.
func (bus *EventBus) SubscribeNewNotification(fn func(NewNotificationPayload)) *Subscription {
	return bus.Subscribe(EventNewNotification, func(payload any) {
		if p, ok := payload.(NewNotificationPayload); ok {
			fn(p)
		}
	})
}
