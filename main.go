package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/signup/internal/commands"
	"github.com/hay-kot/signup/internal/core/styles"
	"github.com/hay-kot/signup/internal/tui"
	"github.com/hay-kot/signup/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, buildInfo() reads
	// runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func buildInfo() tui.BuildInfo {
	v, c, d := version, commit, date

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

	if len(c) > 7 {
		c = c[:7]
	}
	return tui.BuildInfo{Version: v, Commit: c, Date: d}
}

func main() {
	ctx := context.Background()

	// A missing .env is the common case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	var logCloser func()

	flags := &commands.Flags{}
	build := buildInfo()

	app := &cli.Command{
		Name:      "signup",
		Usage:     "Fill in and submit a sign-up form from the terminal",
		UsageText: "signup [global options] command [command options]",
		Description: `Signup renders a six-field account form, validates each field as you type
once you have tried to submit, and POSTs the completed form as JSON.

Run 'signup' with no arguments to open the form.
Run 'signup serve' to start a local endpoint that accepts submissions.`,
		Version: fmt.Sprintf("%s (%s) %s", build.Version, build.Commit, build.Date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("SIGNUP_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file",
				Sources:     cli.EnvVars("SIGNUP_LOG_FILE"),
				Value:       commands.DefaultLogFile(),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("SIGNUP_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Log to a file by default; the form owns the terminal.
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			if err := flags.LoadConfig(c.Args().Slice()); err != nil {
				return ctx, err
			}

			// Validation ensures the theme name is known.
			palette, _ := styles.GetPalette(flags.Config.TUI.Theme)
			styles.SetTheme(palette)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	formCmd := commands.NewFormCmd(flags, build)

	app = commands.NewServeCmd(flags).Register(app)
	app = commands.NewCheckCmd(flags).Register(app)
	app = commands.NewConfigCmd(flags).Register(app)

	app.Flags = append(app.Flags, formCmd.Flags()...)

	// Run the form when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'signup --help' for usage", c.Args().First())
		}
		return formCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
