package commands

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lifeline/internal/lifeline"
	"github.com/colonyops/lifeline/pkg/iojson"
)

type SettingsCmd struct {
	flags *Flags
	app   *lifeline.App

	// flags
	jsonOutput bool
}

// NewSettingsCmd creates a new settings command
func NewSettingsCmd(flags *Flags, app *lifeline.App) *SettingsCmd {
	return &SettingsCmd{flags: flags, app: app}
}

// Register adds the settings command to the application
func (cmd *SettingsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "settings",
		Usage:     "Show notification settings",
		UsageText: "lifeline settings [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.show,
		Commands: []*cli.Command{
			{
				Name:      "edit",
				Usage:     "Edit notification settings interactively",
				UsageText: "lifeline settings edit",
				Action:    cmd.edit,
			},
		},
	})

	return app
}

func (cmd *SettingsCmd) show(ctx context.Context, c *cli.Command) error {
	settings, err := cmd.app.Store.Settings(ctx)
	if err != nil {
		return fmt.Errorf("fetch settings: %w", err)
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		return iojson.WriteWith(out, c.Root().ErrWriter, settings)
	}

	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	fmt.Fprintf(out, "Push notifications:  %s\n", onOff(settings.PushEnabled))
	fmt.Fprintf(out, "  Blood requests:    %s\n", onOff(settings.BloodRequests))
	fmt.Fprintf(out, "  Request updates:   %s\n", onOff(settings.RequestUpdates))
	fmt.Fprintf(out, "  Donation reminders:%s\n", " "+onOff(settings.DonationReminders))
	fmt.Fprintf(out, "  Announcements:     %s\n", onOff(settings.SystemAnnouncements))
	return nil
}

func (cmd *SettingsCmd) edit(ctx context.Context, c *cli.Command) error {
	settings, err := cmd.app.Store.Settings(ctx)
	if err != nil {
		return fmt.Errorf("fetch settings: %w", err)
	}

	edited := settings
	var save bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Push notifications").
				Description("Master switch; turning this off disables every category").
				Value(&edited.PushEnabled),
			huh.NewConfirm().
				Title("Blood requests").
				Value(&edited.BloodRequests),
			huh.NewConfirm().
				Title("Request updates").
				Value(&edited.RequestUpdates),
			huh.NewConfirm().
				Title("Donation reminders").
				Value(&edited.DonationReminders),
			huh.NewConfirm().
				Title("Announcements").
				Value(&edited.SystemAnnouncements),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save changes?").
				Value(&save),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("settings form: %w", err)
	}

	if !save {
		fmt.Fprintln(c.Root().Writer, "Discarded changes")
		return nil
	}

	// The master switch wins over individual toggles
	if settings.PushEnabled && !edited.PushEnabled {
		edited.SetPushEnabled(false)
	}
	edited.Normalize()

	if _, err := cmd.app.Store.UpdateSettings(ctx, edited); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	fmt.Fprintln(c.Root().Writer, "Settings saved")
	return nil
}
