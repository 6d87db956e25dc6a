package commands

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/signup/internal/core/logging"
	"github.com/hay-kot/signup/internal/core/signup"
	"github.com/hay-kot/signup/internal/core/submit"
	"github.com/hay-kot/signup/internal/tui"
	"github.com/hay-kot/signup/pkg/logutils"
	"github.com/hay-kot/signup/pkg/randid"
)

type FormCmd struct {
	flags    *Flags
	build    tui.BuildInfo
	endpoint string
	timeout  time.Duration
}

// NewFormCmd creates the interactive form command.
func NewFormCmd(flags *Flags, build tui.BuildInfo) *FormCmd {
	return &FormCmd{flags: flags, build: build}
}

// Flags returns the form flags for registration on the root command.
func (cmd *FormCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "endpoint",
			Usage:       "submission URL (overrides submit.endpoint)",
			Sources:     cli.EnvVars("SIGNUP_ENDPOINT"),
			Destination: &cmd.endpoint,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "submission timeout (overrides submit.timeout)",
			Sources:     cli.EnvVars("SIGNUP_TIMEOUT"),
			Destination: &cmd.timeout,
		},
	}
}

// Run executes the form. Exported for use as default command.
func (cmd *FormCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *FormCmd) run(_ context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	// Without a log file the logger writes to stderr, which shares the
	// terminal the form draws on.
	if cmd.flags.LogFile == "" {
		held := &logutils.DeferredWriter{}
		prev := log.Logger
		log.Logger = log.Logger.Output(held)
		defer func() {
			log.Logger = prev
			_ = held.Flush(c.Root().ErrWriter)
		}()
	}

	endpoint := cfg.Submit.Endpoint
	if cmd.endpoint != "" {
		endpoint = cmd.endpoint
	}
	timeout := cfg.Submit.Timeout
	if cmd.timeout > 0 {
		timeout = cmd.timeout
	}

	ctrl, err := signup.NewController(cfg.Layout(), cfg.Rules(time.Now()))
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	formID := randid.Generate(12)
	client := submit.NewClient(endpoint, timeout, logging.Component("submit"))

	log.Info().
		Str("form_id", formID).
		Str("endpoint", endpoint).
		Dur("timeout", timeout).
		Str("today_mode", cfg.Dates.TodayMode).
		Msg("starting form")

	m := tui.New(tui.Options{
		Controller: ctrl,
		Submitter:  client,
		Timeout:    timeout,
		Title:      cfg.Form.Title,
		Endpoint:   endpoint,
		FormID:     formID,
		Build:      cmd.build,
		Logger:     logging.Component("tui"),
	})

	if _, err := tea.NewProgram(m).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
