package push

import (
	"context"

	"github.com/rs/zerolog"
)

// Navigation is the hint a launch delivery hands to the host UI.
type Navigation int

const (
	NavigateNone Navigation = iota
	NavigateInbox
)

// HandleLaunch processes a launch-via-notification delivery: the user
// opened the app through a notification, possibly after a process
// restart that lost the raw payload. Ingest is best-effort; the
// navigation hint is returned regardless, and nothing here fails the
// launch.
func HandleLaunch(ctx context.Context, ingestor Ingestor, raw []byte, log zerolog.Logger) Navigation {
	if len(raw) == 0 {
		// Payload did not survive the restart; still navigate.
		return NavigateInbox
	}

	if _, err := ingestor.IngestPush(ctx, raw); err != nil {
		log.Warn().Err(err).Msg("launch payload ingest skipped")
	}

	return NavigateInbox
}
