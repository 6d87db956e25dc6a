package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/signup/internal/collector"
	"github.com/hay-kot/signup/internal/core/logging"
	"github.com/hay-kot/signup/internal/store/jsonfile"
)

type ServeCmd struct {
	flags *Flags
	addr  string
	store string
}

// NewServeCmd creates the mock collector command.
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run a local collector that accepts sign-up submissions",
		UsageText: "signup serve [options]",
		Description: `Starts an HTTP server that accepts JSON objects on POST /posts and echoes
them back with an assigned id. Point submit.endpoint (or --endpoint) at
http://<addr>/posts to exercise the form without a network connection.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides serve.addr)",
				Sources:     cli.EnvVars("SIGNUP_SERVE_ADDR"),
				Destination: &cmd.addr,
			},
			&cli.StringFlag{
				Name:        "store",
				Usage:       "JSON file that keeps accepted submissions across restarts (overrides serve.store)",
				Sources:     cli.EnvVars("SIGNUP_SERVE_STORE"),
				Destination: &cmd.store,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	addr := cmd.flags.Config.Serve.Addr
	if cmd.addr != "" {
		addr = cmd.addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []collector.Option
	storePath := cmd.flags.Config.Serve.Store
	if cmd.store != "" {
		storePath = cmd.store
	}
	if storePath != "" {
		opts = append(opts, collector.WithStore(jsonfile.NewRecordStore(storePath)))
	}

	srv := collector.New(addr, logging.Component("collector"), opts...)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "collector listening on http://%s/posts\n", srv.Addr())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown collector")
		return fmt.Errorf("shutdown collector: %w", err)
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "accepted %d submission(s)\n", len(srv.Records()))
	return nil
}
