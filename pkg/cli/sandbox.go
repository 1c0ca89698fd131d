package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/civicsnap/pkg/cli/config"
	"github.com/secmon-lab/civicsnap/pkg/sandbox"
	"github.com/urfave/cli/v3"
)

func cmdSandbox() *cli.Command {
	var sandboxCfg config.Sandbox

	return &cli.Command{
		Name:  "sandbox",
		Usage: "Run an in-memory backend for local use and demos",
		Flags: sandboxCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)
			logger.Info("Starting sandbox backend", slog.Any("sandbox", sandboxCfg))

			sb, err := sandbox.Start(ctx, sandboxCfg.Options()...)
			if err != nil {
				return err
			}

			w := writer(c)
			fmt.Fprintf(w, "Sandbox API listening on %s\n", sb.APIURL())
			fmt.Fprintf(w, "Admin login: %s / %s\n", sandboxCfg.AdminEmail, sandboxCfg.AdminPassword)
			fmt.Fprintf(w, "Point the client at it with: --api-url %s\n", sb.APIURL())

			if err := sb.Wait(ctx); err != nil {
				return err
			}
			logger.Info("Sandbox shutdown complete")
			return nil
		},
	}
}
