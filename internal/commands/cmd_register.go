package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/lifeline/internal/lifeline"
	"github.com/colonyops/lifeline/internal/push"
)

type RegisterCmd struct {
	flags *Flags
	app   *lifeline.App
}

// NewRegisterCmd creates a new register command
func NewRegisterCmd(flags *Flags, app *lifeline.App) *RegisterCmd {
	return &RegisterCmd{flags: flags, app: app}
}

// Register adds the register command to the application
func (cmd *RegisterCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "register",
		Usage:     "Register this device for push notifications",
		UsageText: "lifeline register <push-token>",
		Description: `Registers a push token with the server under this install's stable device
id. The device id is generated on first use and persisted locally, so
re-registering with a new token replaces the old one instead of creating a
duplicate device.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *RegisterCmd) run(ctx context.Context, c *cli.Command) error {
	token := c.Args().First()
	if token == "" {
		return fmt.Errorf("push token is required")
	}

	deviceID, err := push.EnsureRegistered(ctx, cmd.app.Store, cmd.app.Cache, token)
	if err != nil {
		return fmt.Errorf("register device: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Registered device %s\n", deviceID)
	return nil
}
