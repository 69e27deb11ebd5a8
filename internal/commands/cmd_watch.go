package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/lifeline/internal/badge"
	"github.com/colonyops/lifeline/internal/core/eventbus"
	"github.com/colonyops/lifeline/internal/core/logging"
	"github.com/colonyops/lifeline/internal/lifeline"
	"github.com/colonyops/lifeline/internal/push"
)

type WatchCmd struct {
	flags *Flags
	app   *lifeline.App

	// flags
	noPush bool
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags, app *lifeline.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Stream notifications and unread count changes to the terminal",
		UsageText: "lifeline watch [--no-push]",
		Description: `Runs headless: polls the unread count, follows the push feed when
configured, and prints one line per change. Muted notification types are
ingested but not printed. Stop with Ctrl-C.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "no-push",
				Usage:       "do not connect to the push feed, poll only",
				Destination: &cmd.noPush,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	log := logging.Component("watch")
	out := c.Root().Writer
	cfg := cmd.app.Config

	newSub := cmd.app.Bus.SubscribeNewNotification(func(p eventbus.NewNotificationPayload) {
		n := p.Notification
		if cfg.Muted(n.Type) {
			log.Debug().Str("type", string(n.Type)).Msg("muted notification suppressed")
			return
		}
		fmt.Fprintf(out, "new     %-24s %s\n", n.Type, n.Title)
	})
	defer newSub.Unsubscribe()

	// Seed the badge with the last cached count so the first line is
	// meaningful even before the server answers.
	seed := 0
	if count, ok, err := cmd.app.Cache.LastCount(ctx); err == nil && ok {
		seed = count
	}

	controller := badge.NewController(cmd.app.Sync, cmd.app.Bus, badge.Options{
		Interval: cfg.Badge.PollInterval,
		Seed:     seed,
		Logger:   logging.Component("badge"),
	})
	controller.OnChange(func(count int) {
		fmt.Fprintf(out, "unread  %d\n", count)
		if err := cmd.app.Cache.SetLastCount(context.Background(), count); err != nil {
			log.Warn().Err(err).Msg("failed to cache count")
		}
	})

	controller.Start(ctx)
	defer controller.Stop()

	if cfg.PushEnabled() && !cmd.noPush {
		listener := push.NewListener(cfg.Push.FeedURL, cmd.app.Sync, logging.Component("push"))
		err := listener.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	<-ctx.Done()
	return nil
}
