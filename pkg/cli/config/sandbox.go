package config

import (
	"log/slog"

	"github.com/secmon-lab/civicsnap/pkg/sandbox"
	"github.com/urfave/cli/v3"
)

// Sandbox holds the settings of the local backend
type Sandbox struct {
	Addr          string
	PublicURL     string
	AdminName     string
	AdminEmail    string
	AdminPassword string
	TokenSecret   string
	Samples       bool
}

// Flags returns CLI flags for the sandbox backend
func (s *Sandbox) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Listen address",
			Value:       "localhost:5000",
			Sources:     cli.EnvVars("CIVICSNAP_SANDBOX_ADDR"),
			Destination: &s.Addr,
		},
		&cli.StringFlag{
			Name:        "public-url",
			Usage:       "Public base URL for uploaded images (if not set, detected from request headers)",
			Sources:     cli.EnvVars("CIVICSNAP_SANDBOX_PUBLIC_URL"),
			Destination: &s.PublicURL,
		},
		&cli.StringFlag{
			Name:        "admin-name",
			Usage:       "Seeded admin name",
			Value:       sandbox.DefaultAdminName,
			Sources:     cli.EnvVars("CIVICSNAP_SANDBOX_ADMIN_NAME"),
			Destination: &s.AdminName,
		},
		&cli.StringFlag{
			Name:        "admin-email",
			Usage:       "Seeded admin email",
			Value:       sandbox.DefaultAdminEmail,
			Sources:     cli.EnvVars("CIVICSNAP_SANDBOX_ADMIN_EMAIL"),
			Destination: &s.AdminEmail,
		},
		&cli.StringFlag{
			Name:        "admin-password",
			Usage:       "Seeded admin password",
			Value:       sandbox.DefaultAdminPassword,
			Sources:     cli.EnvVars("CIVICSNAP_SANDBOX_ADMIN_PASSWORD"),
			Destination: &s.AdminPassword,
		},
		&cli.StringFlag{
			Name:        "token-secret",
			Usage:       "HS256 signing key; a random key is used when empty",
			Sources:     cli.EnvVars("CIVICSNAP_SANDBOX_TOKEN_SECRET"),
			Destination: &s.TokenSecret,
		},
		&cli.BoolFlag{
			Name:        "samples",
			Usage:       "Seed demo issues",
			Sources:     cli.EnvVars("CIVICSNAP_SANDBOX_SAMPLES"),
			Destination: &s.Samples,
		},
	}
}

// Options converts the settings into sandbox options
func (s *Sandbox) Options() []sandbox.Option {
	opts := []sandbox.Option{
		sandbox.WithAddr(s.Addr),
		sandbox.WithAdmin(s.AdminName, s.AdminEmail, s.AdminPassword),
		sandbox.WithSampleIssues(s.Samples),
	}
	if s.PublicURL != "" {
		opts = append(opts, sandbox.WithPublicURL(s.PublicURL))
	}
	if s.TokenSecret != "" {
		opts = append(opts, sandbox.WithTokenSecret([]byte(s.TokenSecret)))
	}
	return opts
}

// LogValue returns structured log value
func (s Sandbox) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.String("public_url", s.PublicURL),
		slog.String("admin_email", s.AdminEmail),
		slog.Bool("has_token_secret", s.TokenSecret != ""),
		slog.Bool("samples", s.Samples),
	)
}
