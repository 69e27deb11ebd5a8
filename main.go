package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/lifeline/internal/api"
	"github.com/colonyops/lifeline/internal/commands"
	"github.com/colonyops/lifeline/internal/core/config"
	"github.com/colonyops/lifeline/internal/core/eventbus"
	"github.com/colonyops/lifeline/internal/core/styles"
	"github.com/colonyops/lifeline/internal/data/cache"
	"github.com/colonyops/lifeline/internal/lifeline"
	"github.com/colonyops/lifeline/internal/sync"
	"github.com/colonyops/lifeline/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		logCloser func()
		app       = &lifeline.App{}
		localDB   *cache.Cache
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "lifeline",
		Usage:     "Blood donation notifications in your terminal",
		UsageText: "lifeline [global options] command [command options]",
		Description: `Lifeline is a terminal companion for a blood donation matching service.

It keeps a live unread badge, streams push notifications, and lets you read
and manage notifications without leaving the shell.

Run 'lifeline' with no arguments to open the interactive inbox.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("LIFELINE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file, or '-' for console output on stderr (defaults to the state directory)",
				Sources:     cli.EnvVars("LIFELINE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("LIFELINE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("LIFELINE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Logs go to a file so they never bleed into the TUI.
			// '-' opts into human-readable output on stderr instead.
			if flags.LogFile == "-" {
				logger, err := logutils.NewConsole(flags.LogLevel)
				if err != nil {
					return ctx, fmt.Errorf("setup logger: %w", err)
				}
				log.Logger = logger
			} else {
				logFile := flags.LogFile
				if logFile == "" {
					logFile = commands.DefaultLogFile()
				}

				logger, closer, err := logutils.New(flags.LogLevel, logFile)
				if err != nil {
					return ctx, fmt.Errorf("setup logger: %w", err)
				}
				log.Logger = logger
				logCloser = closer
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.Theme)
			styles.SetTheme(palette)

			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return ctx, fmt.Errorf("create data dir: %w", err)
			}

			localDB, err = cache.Open(cfg.CacheFile())
			if err != nil {
				return ctx, fmt.Errorf("open cache: %w", err)
			}

			bus := eventbus.New()
			eventbus.RegisterDebugLogger(bus, log.With().Str("cmp", "eventbus").Logger())

			store := api.New(api.Options{
				BaseURL:    cfg.API.BaseURL,
				Token:      cfg.API.Token,
				HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
			})

			svc := sync.NewService(store, bus, log.With().Str("cmp", "sync").Logger())

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*app = *lifeline.NewApp(cfg, bus, store, svc, localDB)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if localDB != nil {
				if err := localDB.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close cache")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, app)

	root = commands.NewLsCmd(flags, app).Register(root)
	root = commands.NewShowCmd(flags, app).Register(root)
	root = commands.NewReadCmd(flags, app).Register(root)
	root = commands.NewUnreadCmd(flags, app).Register(root)
	root = commands.NewSettingsCmd(flags, app).Register(root)
	root = commands.NewConfigCmd(flags).Register(root)
	root = commands.NewRegisterCmd(flags, app).Register(root)
	root = commands.NewWatchCmd(flags, app).Register(root)
	root = tuiCmd.Register(root)

	// Set TUI as default action when no subcommand is provided
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'lifeline --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if runErr := root.Run(ctx, os.Args); runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
