package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/lifeline/internal/core/config"
	"github.com/colonyops/lifeline/internal/core/notify"
	"github.com/colonyops/lifeline/internal/lifeline"
	"github.com/colonyops/lifeline/pkg/iojson"
)

type ShowCmd struct {
	flags *Flags
	app   *lifeline.App

	// flags
	jsonOutput bool
	markRead   bool
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags, app *lifeline.App) *ShowCmd {
	return &ShowCmd{flags: flags, app: app}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show one notification in detail",
		UsageText: "lifeline show <id> [--read] [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "read",
				Usage:       "mark the notification read after showing it",
				Destination: &cmd.markRead,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("notification id is required")
	}

	n, err := cmd.find(ctx, id)
	if err != nil {
		return err
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		if err := iojson.WriteWith(out, os.Stderr, n); err != nil {
			return err
		}
	} else if err := cmd.render(out, n); err != nil {
		return err
	}

	if cmd.markRead && !n.IsRead {
		if err := cmd.app.Sync.MarkOneRead(ctx, n.ID); err != nil {
			return fmt.Errorf("mark read: %w", err)
		}
		if err := cmd.app.Cache.MarkRead(ctx, n.ID); err != nil {
			return fmt.Errorf("update cache: %w", err)
		}
	}

	return nil
}

// find looks for the notification in the local cache first, then falls
// back to fetching recent pages from the server.
func (cmd *ShowCmd) find(ctx context.Context, id string) (notify.Notification, error) {
	cached, err := cmd.app.Cache.Recent(ctx, 200)
	if err == nil {
		for _, n := range cached {
			if n.ID == id {
				return n, nil
			}
		}
	}

	result, err := cmd.app.Store.List(ctx, 1, 100)
	if err != nil {
		return notify.Notification{}, fmt.Errorf("fetch notifications: %w", err)
	}
	for _, n := range result.Notifications {
		if n.ID == id {
			return n, nil
		}
	}

	return notify.Notification{}, fmt.Errorf("notification %q not found", id)
}

func (cmd *ShowCmd) render(out io.Writer, n notify.Notification) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", n.Title)
	if n.Message != "" {
		fmt.Fprintf(&b, "%s\n\n", n.Message)
	}

	fmt.Fprintf(&b, "- **Type:** %s\n", n.Type)
	fmt.Fprintf(&b, "- **Received:** %s\n", n.CreatedAt.Local().Format("2006-01-02 15:04"))
	if n.BloodType != "" {
		fmt.Fprintf(&b, "- **Blood type:** %s\n", n.BloodType)
	}
	if n.ActorName != "" {
		fmt.Fprintf(&b, "- **From:** %s\n", n.ActorName)
	}
	if n.IsRead {
		fmt.Fprintf(&b, "- **Status:** read\n")
	} else {
		fmt.Fprintf(&b, "- **Status:** unread\n")
	}

	// Plain output when piped
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		_, err := fmt.Fprintln(out, b.String())
		return err
	}

	style := glamour.WithStandardStyle("dark")
	if cmd.flags.Config != nil && cmd.flags.Config.Theme == config.ThemeLight {
		style = glamour.WithStandardStyle("light")
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	rendered, err := renderer.Render(b.String())
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	_, err = fmt.Fprint(out, rendered)
	return err
}
