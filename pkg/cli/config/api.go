package config

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/session"
	"github.com/urfave/cli/v3"
)

// API holds the backend connection settings
type API struct {
	BaseURL string
	Timeout time.Duration
}

// Flags returns CLI flags for API configuration
func (a *API) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "api-url",
			Usage:       "Backend API base URL",
			Category:    "API",
			Value:       client.DefaultBaseURL,
			Sources:     cli.EnvVars("CIVICSNAP_API_URL"),
			Destination: &a.BaseURL,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Request timeout",
			Category:    "API",
			Value:       client.DefaultTimeout,
			Sources:     cli.EnvVars("CIVICSNAP_TIMEOUT"),
			Destination: &a.Timeout,
		},
	}
}

// ApplyProfile fills settings that were not given on the command line
func (a *API) ApplyProfile(p *Profile, isSet func(name string) bool) {
	if p.APIURL != "" && !isSet("api-url") {
		a.BaseURL = p.APIURL
	}
	if p.Timeout > 0 && !isSet("timeout") {
		a.Timeout = p.Timeout
	}
}

// Configure creates the API client bound to the session
func (a *API) Configure(sess *session.Manager) (*client.Client, error) {
	u, err := url.Parse(a.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, goerr.New("invalid API base URL", goerr.V("url", a.BaseURL))
	}
	if a.Timeout <= 0 {
		return nil, goerr.New("timeout must be positive", goerr.V("timeout", a.Timeout))
	}

	return client.New(
		client.WithBaseURL(a.BaseURL),
		client.WithTimeout(a.Timeout),
		client.WithSession(sess),
	), nil
}

// LogValue returns structured log value
func (a API) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", a.BaseURL),
		slog.Duration("timeout", a.Timeout),
	)
}
