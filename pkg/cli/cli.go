package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

// globals are the settings shared by every command
type globals struct {
	logger  config.Logger
	profile config.Profile
	api     config.API
	session config.Session
	notify  config.Notify
}

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout)
}

func run(ctx context.Context, args []string, w io.Writer) error {
	// .env is optional; values already in the environment win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return goerr.Wrap(err, "failed to load .env")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := &globals{}

	app := &cli.Command{
		Name:    "civicsnap",
		Usage:   "Report and track civic issues from the terminal",
		Version: "0.1.0",
		Writer:  w,
		Flags: joinFlags(
			g.logger.Flags(),
			g.profile.Flags(),
			g.api.Flags(),
			g.session.Flags(),
			g.notify.Flags(),
		),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := g.logger.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdLogin(g),
			cmdLogout(g),
			cmdRegister(g),
			cmdWhoami(g),
			cmdHome(g),
			cmdIssues(g),
			cmdMap(g),
			cmdShow(g),
			cmdVote(g),
			cmdReport(g),
			cmdAdmin(g),
			cmdSandbox(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return goerr.Wrap(err, "CLI execution failed")
	}

	return nil
}
