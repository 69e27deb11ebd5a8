// Package sync coordinates read-state mutations between the remote
// notification store and the local event bus. Every mutation goes
// remote-first: the local event is published only after the server
// confirms, so a failed call can never produce a false "read" signal.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/lifeline/internal/core/eventbus"
	"github.com/colonyops/lifeline/internal/core/notify"
)

const refreshTimeout = 10 * time.Second

// Service is the notification sync coordinator. It owns no durable
// state; consistency across consumers comes from the event protocol.
type Service struct {
	store notify.Store
	bus   *eventbus.EventBus
	log   zerolog.Logger
}

// NewService creates a Service over the given remote store and bus.
func NewService(store notify.Store, bus *eventbus.EventBus, log zerolog.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// MarkOneRead marks a single notification read on the server, then
// publishes notification.read. On remote failure it returns a
// MutationError and publishes nothing.
func (s *Service) MarkOneRead(ctx context.Context, id string) error {
	if err := s.store.MarkRead(ctx, id); err != nil {
		return &MutationError{Op: fmt.Sprintf("mark %s read", id), Err: err}
	}

	s.bus.PublishNotificationRead(eventbus.NotificationReadPayload{NotificationID: id})
	return nil
}

// MarkAllRead marks every notification read on the server, then
// publishes notification.read-all followed by count-updated{0}, in that
// order, so a consumer listening only to the count event still
// converges to zero. Returns the previous unread count, or
// notify.CountUnknown when the server omitted it.
func (s *Service) MarkAllRead(ctx context.Context) (int, error) {
	previous, err := s.store.MarkAllRead(ctx)
	if err != nil {
		return notify.CountUnknown, &MutationError{Op: "mark all read", Err: err}
	}

	s.bus.PublishAllNotificationsRead(eventbus.AllNotificationsReadPayload{})
	s.bus.PublishCountUpdated(eventbus.CountUpdatedPayload{Count: 0})
	return previous, nil
}

// RefreshUnreadCount fetches the authoritative unread count and
// publishes count-updated. This is the only source of the final count
// value; local arithmetic is never authoritative.
func (s *Service) RefreshUnreadCount(ctx context.Context) (int, error) {
	count, err := s.store.UnreadCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("refresh unread count: %w", err)
	}

	s.bus.PublishCountUpdated(eventbus.CountUpdatedPayload{Count: count})
	return count, nil
}

// IngestPush normalizes a provider payload, publishes notification.new,
// and kicks off an asynchronous count refresh. A refresh failure is
// logged, not surfaced: the notification itself already reached the
// user through the push channel. Malformed payloads are returned as
// notify.ErrMalformedPayload without publishing anything.
func (s *Service) IngestPush(ctx context.Context, raw []byte) (notify.Notification, error) {
	n, err := notify.DecodePush(raw)
	if err != nil {
		return notify.Notification{}, err
	}

	s.bus.PublishNewNotification(eventbus.NewNotificationPayload{Notification: n})

	go func() {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		if _, err := s.RefreshUnreadCount(refreshCtx); err != nil {
			s.log.Warn().Err(err).Msg("post-push count refresh failed")
		}
	}()

	return n, nil
}
