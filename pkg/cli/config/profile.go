package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Profile is an optional YAML file with defaults for the other settings.
// Flags and environment variables take precedence over it.
type Profile struct {
	Path string `yaml:"-"`

	APIURL        string        `yaml:"api_url"`
	Timeout       time.Duration `yaml:"timeout"`
	SessionDB     string        `yaml:"session_db"`
	ToastDuration time.Duration `yaml:"toast_duration"`
	SlackWebhook  string        `yaml:"slack_webhook"`
}

// Flags returns CLI flags for the profile
func (p *Profile) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Path to a YAML profile (api_url, timeout, session_db, toast_duration, slack_webhook)",
			Sources:     cli.EnvVars("CIVICSNAP_PROFILE"),
			Destination: &p.Path,
		},
	}
}

// Load reads the profile file. An empty path leaves the profile empty.
func (p *Profile) Load() error {
	if p.Path == "" {
		return nil
	}

	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return goerr.Wrap(err, "profile not found", goerr.V("path", p.Path))
		}
		return goerr.Wrap(err, "failed to read profile", goerr.V("path", p.Path))
	}

	path := p.Path
	if err := yaml.Unmarshal(data, p); err != nil {
		return goerr.Wrap(err, "failed to parse profile", goerr.V("path", path))
	}
	p.Path = path

	if p.Timeout < 0 || p.ToastDuration < 0 {
		return goerr.New("durations in profile must not be negative", goerr.V("path", path))
	}
	return nil
}

// LogValue returns structured log value
func (p Profile) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", p.Path),
		slog.String("api_url", p.APIURL),
		slog.Duration("timeout", p.Timeout),
		slog.String("session_db", p.SessionDB),
		slog.Bool("has_slack_webhook", p.SlackWebhook != ""),
	)
}
