package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/lifeline/internal/core/notify"
	"github.com/colonyops/lifeline/internal/lifeline"
)

type ReadCmd struct {
	flags *Flags
	app   *lifeline.App

	// flags
	all bool
}

// NewReadCmd creates a new read command
func NewReadCmd(flags *Flags, app *lifeline.App) *ReadCmd {
	return &ReadCmd{flags: flags, app: app}
}

// Register adds the read command to the application
func (cmd *ReadCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "read",
		Usage:     "Mark notifications as read",
		UsageText: "lifeline read <id>... | lifeline read --all",
		Description: `Marks one or more notifications read on the server. The local cache and
unread count follow the server's confirmation; nothing is changed when the
server rejects the request.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "mark every notification read",
				Destination: &cmd.all,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReadCmd) run(ctx context.Context, c *cli.Command) error {
	out := c.Root().Writer

	if cmd.all {
		previous, err := cmd.app.Sync.MarkAllRead(ctx)
		if err != nil {
			return fmt.Errorf("mark all read: %w", err)
		}
		if err := cmd.app.Cache.MarkAllRead(ctx); err != nil {
			return fmt.Errorf("update cache: %w", err)
		}
		if err := cmd.app.Cache.SetLastCount(ctx, 0); err != nil {
			return fmt.Errorf("update cache: %w", err)
		}

		if previous == notify.CountUnknown {
			fmt.Fprintln(out, "All notifications marked read")
		} else {
			fmt.Fprintf(out, "All notifications marked read (%d were unread)\n", previous)
		}
		return nil
	}

	ids := c.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("notification id is required (or use --all)")
	}

	for _, id := range ids {
		if err := cmd.app.Sync.MarkOneRead(ctx, id); err != nil {
			return fmt.Errorf("mark %s read: %w", id, err)
		}
		if err := cmd.app.Cache.MarkRead(ctx, id); err != nil {
			return fmt.Errorf("update cache: %w", err)
		}
		fmt.Fprintf(out, "Marked %s read\n", id)
	}

	return nil
}
