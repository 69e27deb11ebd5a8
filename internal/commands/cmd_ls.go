package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lifeline/internal/api"
	"github.com/colonyops/lifeline/internal/core/notify"
	"github.com/colonyops/lifeline/internal/lifeline"
	"github.com/colonyops/lifeline/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *lifeline.App

	// flags
	jsonOutput bool
	unreadOnly bool
	cached     bool
	page       int
	limit      int
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *lifeline.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List notifications",
		UsageText: "lifeline ls [--json] [--unread] [--page N] [--limit N]",
		Description: `Displays a table of notifications with their read state, type, and title.

When the server is unreachable the most recently cached notifications are
shown instead. Use --json for machine-readable output.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "unread",
				Usage:       "only show unread notifications",
				Destination: &cmd.unreadOnly,
			},
			&cli.BoolFlag{
				Name:        "cached",
				Usage:       "list from the local cache without contacting the server",
				Destination: &cmd.cached,
			},
			&cli.IntFlag{
				Name:        "page",
				Usage:       "page number",
				Value:       1,
				Destination: &cmd.page,
			},
			&cli.IntFlag{
				Name:        "limit",
				Usage:       "notifications per page",
				Value:       20,
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	notifications, fromCache, err := cmd.fetch(ctx)
	if err != nil {
		return err
	}

	if cmd.unreadOnly {
		filtered := notifications[:0]
		for _, n := range notifications {
			if !n.IsRead {
				filtered = append(filtered, n)
			}
		}
		notifications = filtered
	}

	out := c.Root().Writer

	if len(notifications) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintln(os.Stderr, "No notifications")
		}
		return nil
	}

	if fromCache && !cmd.cached {
		fmt.Fprintln(os.Stderr, "Server unreachable, showing cached notifications")
	}

	if cmd.jsonOutput {
		for _, n := range notifications {
			if err := iojson.WriteLine(out, n); err != nil {
				return fmt.Errorf("encode notification: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tTYPE\tTITLE\tAGE\tID")

	for _, n := range notifications {
		marker := " "
		if !n.IsRead {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, n.Type, truncate(n.Title, 48), age(n.CreatedAt), n.ID)
	}

	return w.Flush()
}

// fetch returns notifications from the server, falling back to the
// local cache when the network is down.
func (cmd *LsCmd) fetch(ctx context.Context) (ns []notify.Notification, fromCache bool, err error) {
	if cmd.cached {
		ns, err = cmd.app.Cache.Recent(ctx, cmd.limit)
		return ns, true, err
	}

	result, err := cmd.app.Store.List(ctx, cmd.page, cmd.limit)
	if err != nil {
		if api.IsNetwork(err) {
			ns, cacheErr := cmd.app.Cache.Recent(ctx, cmd.limit)
			if cacheErr != nil {
				return nil, false, fmt.Errorf("list notifications: %w", err)
			}
			return ns, true, nil
		}
		return nil, false, fmt.Errorf("list notifications: %w", err)
	}

	if err := cmd.app.Cache.StoreNotifications(ctx, result.Notifications); err != nil {
		log.Warn().Err(err).Msg("failed to cache notifications")
	}

	return result.Notifications, false, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func age(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
