package commands

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/lifeline/internal/core/logging"
	"github.com/colonyops/lifeline/internal/lifeline"
	"github.com/colonyops/lifeline/internal/push"
	"github.com/colonyops/lifeline/internal/tui"
)

type TuiCmd struct {
	flags *Flags
	app   *lifeline.App

	// flags
	launchPayload string
}

// NewTuiCmd creates a new tui command
func NewTuiCmd(flags *Flags, app *lifeline.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: app}
}

// Register adds the tui command to the application
func (cmd *TuiCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "tui",
		Usage:     "Open the interactive notification inbox",
		UsageText: "lifeline tui [--launch-payload json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "launch-payload",
				Usage:       "raw push payload from the notification that launched the app (empty if it did not survive the restart)",
				Destination: &cmd.launchPayload,
			},
		},
		Action: cmd.Run,
	})

	return app
}

// Run executes the TUI. Exported for use as default command.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg := cmd.app.Config

	// A notification tap relaunches the process with the raw payload
	// attached. It goes through the same ingestion path as the live
	// feed, and the hint decides whether the inbox opens at all.
	if c.IsSet("launch-payload") {
		if cmd.launch(ctx, []byte(cmd.launchPayload)) != push.NavigateInbox {
			return nil
		}
	}

	// Follow the push feed in the background while the inbox is open.
	if cfg.PushEnabled() {
		pushLog := logging.Component("push")
		listener := push.NewListener(cfg.Push.FeedURL, cmd.app.Sync, pushLog)
		go func() {
			if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				pushLog.Error().Err(err).Msg("push listener stopped")
			}
		}()
	}

	deps := tui.Deps{
		Config: cfg,
		Store:  cmd.app.Store,
		Sync:   cmd.app.Sync,
		Cache:  cmd.app.Cache,
		Logger: logging.Component("tui"),
	}

	return tui.Run(ctx, deps, cmd.app.Bus, cmd.app.Sync)
}

func (cmd *TuiCmd) launch(ctx context.Context, raw []byte) push.Navigation {
	return push.HandleLaunch(ctx, cmd.app.Sync, raw, logging.Component("push"))
}
