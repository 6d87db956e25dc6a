package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/signup/internal/core/config"
	"github.com/hay-kot/signup/internal/core/styles"
)

type ConfigCmd struct {
	flags *Flags
	yes   bool
	force bool
}

// NewConfigCmd creates the config command group.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags}
}

// Register adds the config commands to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Write a config file with an interactive prompt",
				UsageText: "signup config init [options]",
				Description: `Prompts for the submission endpoint, timeout, and theme, then writes the
config file. An existing file is backed up to <path>.bak before it is
replaced.

Use --yes to accept all defaults without prompts.`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "accept defaults without prompting",
						Destination: &cmd.yes,
					},
					&cli.BoolFlag{
						Name:        "force",
						Aliases:     []string{"f"},
						Usage:       "overwrite existing configuration",
						Destination: &cmd.force,
					},
				},
				Action: cmd.runInit,
			},
			{
				Name:      "validate",
				Usage:     "Validate the configuration file",
				UsageText: "signup config validate",
				Action:    cmd.runValidate,
			},
		},
	})
	return app
}

func (cmd *ConfigCmd) runInit(_ context.Context, c *cli.Command) error {
	path := cmd.flags.ConfigPath
	w := c.Root().Writer

	if configExists(path) && !cmd.force {
		if cmd.yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", path)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(path + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			_, _ = fmt.Fprintln(w, "Init cancelled")
			return nil
		}
	}

	cfg := *cmd.flags.Config
	if !cmd.yes {
		if err := promptConfig(&cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	backup, err := backupConfig(path)
	if err != nil {
		return err
	}
	if backup != "" {
		_, _ = fmt.Fprintf(w, "Backed up existing config to %s\n", backup)
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, styles.BannerSuccessStyle.Render("Wrote "+path))
	return nil
}

func (cmd *ConfigCmd) runValidate(_ context.Context, c *cli.Command) error {
	// Load already validated the file in the Before hook.
	_, _ = fmt.Fprintln(c.Root().Writer, styles.BannerSuccessStyle.Render("Configuration is valid"))
	return nil
}

func promptConfig(cfg *config.Config) error {
	timeout := cfg.Submit.Timeout.String()

	themes := make([]huh.Option[string], 0, len(styles.ThemeNames()))
	for _, name := range styles.ThemeNames() {
		themes = append(themes, huh.NewOption(name, name))
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Submission endpoint").
			Description("Sign-ups are POSTed here as JSON").
			Value(&cfg.Submit.Endpoint).
			Validate(config.ValidateEndpoint),
		huh.NewInput().
			Title("Submission timeout").
			Description("Go duration, e.g. 10s").
			Value(&timeout).
			Validate(func(s string) error {
				d, err := time.ParseDuration(s)
				if err != nil {
					return err
				}
				if d <= 0 {
					return errors.New("must be positive")
				}
				return nil
			}),
		huh.NewSelect[string]().
			Title("Theme").
			Options(themes...).
			Value(&cfg.TUI.Theme),
		huh.NewSelect[string]().
			Title("Birthday reference day").
			Options(
				huh.NewOption("fixed when the form opens", config.TodayModeFixed),
				huh.NewOption("current day at every check", config.TodayModeLive),
			).
			Value(&cfg.Dates.TodayMode),
	))
	if err := form.Run(); err != nil {
		return err
	}

	d, err := time.ParseDuration(timeout)
	if err != nil {
		return fmt.Errorf("parse timeout: %w", err)
	}
	cfg.Submit.Timeout = d
	return nil
}

// backupConfig copies an existing config to <path>.bak. It returns "" when
// there was nothing to back up.
func backupConfig(path string) (string, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read existing config: %w", err)
	}

	backupPath := path + ".bak"
	if err := os.WriteFile(backupPath, content, 0o644); err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	return backupPath, nil
}

func configExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
