package config

import (
	"io"
	"log/slog"
	"time"

	"github.com/secmon-lab/civicsnap/pkg/domain/types"
	"github.com/secmon-lab/civicsnap/pkg/toast"
	"github.com/urfave/cli/v3"
)

// Notify holds toast settings
type Notify struct {
	Duration     time.Duration
	SlackWebhook string
	SlackAll     bool
}

// Flags returns CLI flags for notification configuration
func (n *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "toast-duration",
			Usage:       "How long a notification stays visible",
			Category:    "Notification",
			Value:       toast.DefaultDuration,
			Sources:     cli.EnvVars("CIVICSNAP_TOAST_DURATION"),
			Destination: &n.Duration,
		},
		&cli.StringFlag{
			Name:        "slack-webhook",
			Usage:       "Slack incoming webhook URL that mirrors notifications",
			Category:    "Notification",
			Sources:     cli.EnvVars("CIVICSNAP_SLACK_WEBHOOK"),
			Destination: &n.SlackWebhook,
		},
		&cli.BoolFlag{
			Name:        "slack-all",
			Usage:       "Mirror every notification to Slack, not only successes and errors",
			Category:    "Notification",
			Sources:     cli.EnvVars("CIVICSNAP_SLACK_ALL"),
			Destination: &n.SlackAll,
		},
	}
}

// ApplyProfile fills settings that were not given on the command line
func (n *Notify) ApplyProfile(p *Profile, isSet func(name string) bool) {
	if p.ToastDuration > 0 && !isSet("toast-duration") {
		n.Duration = p.ToastDuration
	}
	if p.SlackWebhook != "" && !isSet("slack-webhook") {
		n.SlackWebhook = p.SlackWebhook
	}
}

// Configure creates the toast bus and its display. Toasts are printed to w
// and mirrored to Slack when a webhook is configured.
func (n *Notify) Configure(w io.Writer) (*toast.Bus, *toast.Display) {
	bus := toast.NewBus(toast.WithDuration(n.Duration))

	sinks := []toast.Sink{toast.NewConsole(w)}
	if n.SlackWebhook != "" {
		var opts []toast.SlackOption
		if !n.SlackAll {
			opts = append(opts, toast.WithSlackKinds(types.ToastSuccess, types.ToastError))
		}
		sinks = append(sinks, toast.NewSlack(n.SlackWebhook, opts...))
	}

	return bus, toast.NewDisplay(bus, sinks...)
}

// LogValue returns structured log value
func (n Notify) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("duration", n.Duration),
		slog.Bool("has_slack_webhook", n.SlackWebhook != ""),
	)
}
