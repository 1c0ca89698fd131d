package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/view"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

func cmdLogin(g *globals) *cli.Command {
	var cred model.Credentials

	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Usage:       "Account email",
				Sources:     cli.EnvVars("CIVICSNAP_EMAIL"),
				Destination: &cred.Email,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "Account password (prompted when omitted)",
				Sources:     cli.EnvVars("CIVICSNAP_PASSWORD"),
				Destination: &cred.Password,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			if cred.Email == "" {
				if cred.Email, err = prompt(rt.out, os.Stdin, "Email: "); err != nil {
					return err
				}
			}
			if cred.Password == "" {
				if cred.Password, err = promptPassword(rt.out, "Password: "); err != nil {
					return err
				}
			}

			login := view.NewLogin(rt.client, rt.bus, rt.nav)
			user, err := login.Submit(ctx, cred)
			if err != nil {
				return err
			}

			r := newRenderer(rt.out)
			fmt.Fprintf(rt.out, "Logged in as %s (%s)\n", user.Name, user.Role)
			r.hint(rt.nav.last())
			return nil
		},
	}
}

func cmdLogout(g *globals) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Clear the stored session",
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			navbar := view.NewNavbar(rt.client, rt.client, rt.nav)
			if err := navbar.Logout(ctx); err != nil {
				return err
			}
			rt.bus.Info("Logged out")
			return nil
		},
	}
}

func cmdRegister(g *globals) *cli.Command {
	var reg model.Registration

	return &cli.Command{
		Name:  "register",
		Usage: "Create a citizen account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "name",
				Usage:       "Display name",
				Required:    true,
				Destination: &reg.Name,
			},
			&cli.StringFlag{
				Name:        "email",
				Usage:       "Account email",
				Required:    true,
				Destination: &reg.Email,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "Account password (prompted when omitted)",
				Destination: &reg.Password,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			if reg.Password == "" {
				if reg.Password, err = promptPassword(rt.out, "Password: "); err != nil {
					return err
				}
			}

			user, err := rt.client.Register(ctx, &reg)
			if err != nil {
				rt.bus.Error(client.Message(err))
				return err
			}
			rt.bus.Success("Registration successful! You can now log in as " + user.Email)
			return nil
		},
	}
}

func cmdWhoami(g *globals) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the current session",
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			navbar := view.NewNavbar(rt.client, rt.client, rt.nav)
			newRenderer(rt.out).user(navbar.View(ctx, view.RouteHome))
			if exp := rt.session.Expiry(ctx); !exp.IsZero() {
				fmt.Fprintf(rt.out, "session expires %s\n", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func prompt(w io.Writer, r io.Reader, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", goerr.Wrap(err, "failed to read input")
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(w io.Writer, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(w, os.Stdin, label)
	}

	fmt.Fprint(w, label)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read password")
	}
	return string(pw), nil
}
