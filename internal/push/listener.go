// Package push adapts provider-delivered notification events into the
// sync layer's single ingestion contract. All delivery modes (live
// feed frames, launch-via-notification) funnel through the same path,
// and nothing in this package ever panics into the provider transport.
package push

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/colonyops/lifeline/internal/core/notify"
)

const (
	reconnectBase = time.Second
	reconnectMax  = 30 * time.Second
)

// Ingestor is the sync layer's ingestion contract, satisfied by
// sync.Service.
type Ingestor interface {
	IngestPush(ctx context.Context, raw []byte) (notify.Notification, error)
}

// Listener maintains a connection to the provider's event feed and
// forwards every frame into the ingestor.
type Listener struct {
	url      string
	ingestor Ingestor
	log      zerolog.Logger
}

// NewListener creates a listener for the given feed URL.
func NewListener(url string, ingestor Ingestor, log zerolog.Logger) *Listener {
	return &Listener{url: url, ingestor: ingestor, log: log}
}

// Run connects, reads frames, and reconnects with capped backoff until
// ctx is cancelled. It returns ctx.Err() on cancellation.
func (l *Listener) Run(ctx context.Context) error {
	backoff := reconnectBase

	for {
		err := l.readLoop(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		l.log.Warn().Err(err).Dur("retry_in", backoff).Msg("push feed disconnected")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, reconnectMax)
	}
}

func (l *Listener) readLoop(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, l.url, nil)
	if err != nil {
		return fmt.Errorf("dial push feed: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	l.log.Info().Str("url", l.url).Msg("push feed connected")

	for {
		_, raw, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("read push frame: %w", err)
		}
		l.handleFrame(ctx, raw)
	}
}

// handleFrame ingests one raw frame. Malformed payloads are dropped
// with a warning; a panic anywhere downstream is recovered so it can
// never tear down the feed connection.
func (l *Listener) handleFrame(ctx context.Context, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Str("panic", fmt.Sprint(r)).Msg("push ingest panicked")
		}
	}()

	n, err := l.ingestor.IngestPush(ctx, raw)
	switch {
	case errors.Is(err, notify.ErrMalformedPayload):
		l.log.Warn().Err(err).Msg("dropping malformed push payload")
	case err != nil:
		l.log.Warn().Err(err).Msg("push ingest failed")
	default:
		l.log.Debug().Str("id", n.ID).Str("type", string(n.Type)).Msg("push ingested")
	}
}
