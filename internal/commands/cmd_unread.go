package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/lifeline/internal/api"
	"github.com/colonyops/lifeline/internal/lifeline"
	"github.com/colonyops/lifeline/pkg/iojson"
)

type UnreadCmd struct {
	flags *Flags
	app   *lifeline.App

	// flags
	jsonOutput bool
}

// NewUnreadCmd creates a new unread command
func NewUnreadCmd(flags *Flags, app *lifeline.App) *UnreadCmd {
	return &UnreadCmd{flags: flags, app: app}
}

// Register adds the unread command to the application
func (cmd *UnreadCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "unread",
		Usage:     "Print the unread notification count",
		UsageText: "lifeline unread [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *UnreadCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	count, err := cmd.app.Sync.RefreshUnreadCount(ctx)
	cached := false
	if err != nil {
		if !api.IsNetwork(err) {
			return fmt.Errorf("fetch unread count: %w", err)
		}

		// Server unreachable, fall back to the last cached count
		var ok bool
		count, ok, err = cmd.app.Cache.LastCount(ctx)
		if err != nil || !ok {
			return fmt.Errorf("unread count unavailable: server unreachable and no cached value")
		}
		cached = true
	} else if err := cmd.app.Cache.SetLastCount(ctx, count); err != nil {
		return fmt.Errorf("update cache: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.WriteLine(out, map[string]any{"count": count, "cached": cached})
	}

	if cached {
		fmt.Fprintf(out, "%d (cached)\n", count)
		return nil
	}
	fmt.Fprintln(out, count)
	return nil
}
