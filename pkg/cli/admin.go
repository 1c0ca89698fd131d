package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
	"github.com/secmon-lab/civicsnap/pkg/view"
	"github.com/urfave/cli/v3"
)

// openAdmin mounts the admin dashboard. A denied guard ends the command
// with the hint to log in.
func openAdmin(ctx context.Context, rt *runtime, filter model.Filter, confirm view.Confirm) (*view.AdminDashboard, error) {
	admin := view.NewAdminDashboard(rt.client, rt.client, rt.bus, rt.nav, confirm)
	if err := admin.SetFilter(filter); err != nil {
		return nil, err
	}
	if err := mountAndWait(ctx, admin); err != nil {
		admin.Unmount()
		if admin.Denied() {
			newRenderer(rt.out).hint(rt.nav.last())
		}
		return nil, err
	}
	return admin, nil
}

func cmdAdmin(g *globals) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Moderate issues (admin session required)",
		Commands: []*cli.Command{
			cmdAdminList(g),
			cmdAdminStatus(g),
			cmdAdminDelete(g),
		},
	}
}

func cmdAdminList(g *globals) *cli.Command {
	var ff filterFlags

	return &cli.Command{
		Name:  "list",
		Usage: "List issues for moderation (new reports by default)",
		Flags: ff.Flags(view.DefaultAdminFilter.Status.String()),
		Action: func(ctx context.Context, c *cli.Command) error {
			filter, err := ff.Filter()
			if err != nil {
				return err
			}

			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			admin, err := openAdmin(ctx, rt, filter, nil)
			if err != nil {
				return err
			}
			defer admin.Unmount()

			name := ""
			if u := rt.client.CurrentUser(ctx); u != nil {
				name = u.Name
			}
			newRenderer(rt.out).list("Admin Dashboard - Welcome, "+name, admin.Snapshot())
			return nil
		},
	}
}

func cmdAdminStatus(g *globals) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Change the status of an issue",
		ArgsUsage: "<issue-id> <reported|in_progress|resolved|rejected>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := issueArg(c)
			if err != nil {
				return err
			}
			status := types.Status(c.Args().Get(1))
			if !status.IsValid() {
				return goerr.New("unknown status", goerr.V("status", status))
			}

			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			admin, err := openAdmin(ctx, rt, view.DefaultAdminFilter, nil)
			if err != nil {
				return err
			}
			defer admin.Unmount()

			if err := admin.ChangeStatus(ctx, id, status); err != nil {
				return err
			}
			return admin.Wait(ctx)
		},
	}
}

func cmdAdminDelete(g *globals) *cli.Command {
	var yes bool

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an issue",
		ArgsUsage: "<issue-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "Skip the confirmation prompt",
				Destination: &yes,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := issueArg(c)
			if err != nil {
				return err
			}

			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			confirm := func(question string) bool {
				if yes {
					return true
				}
				answer, err := prompt(rt.out, os.Stdin, question+" [y/N]: ")
				if err != nil {
					return false
				}
				answer = strings.ToLower(answer)
				return answer == "y" || answer == "yes"
			}

			admin, err := openAdmin(ctx, rt, view.DefaultAdminFilter, confirm)
			if err != nil {
				return err
			}
			defer admin.Unmount()

			if err := admin.Delete(ctx, id); err != nil {
				if errors.Is(err, view.ErrCancelled) {
					fmt.Fprintln(rt.out, "Cancelled")
					return nil
				}
				return err
			}
			return admin.Wait(ctx)
		},
	}
}
