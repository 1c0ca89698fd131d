package toast

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
	"github.com/secmon-lab/civicsnap/pkg/utils/async"
	"github.com/slack-go/slack"
)

var slackColors = map[types.ToastKind]string{
	types.ToastSuccess: "#10b981",
	types.ToastError:   "#ef4444",
	types.ToastInfo:    "#3b82f6",
	types.ToastWarning: "#f59e0b",
}

// Slack mirrors toasts to an incoming webhook. Posting happens in the
// background; Flush waits for pending posts.
type Slack struct {
	webhookURL string
	kinds      map[types.ToastKind]bool
	post       func(ctx context.Context, url string, msg *slack.WebhookMessage) error
	group      async.Group
}

// SlackOption configures a Slack sink
type SlackOption func(*Slack)

// WithSlackKinds restricts the mirrored kinds. All kinds are mirrored by default.
func WithSlackKinds(kinds ...types.ToastKind) SlackOption {
	return func(s *Slack) {
		s.kinds = make(map[types.ToastKind]bool, len(kinds))
		for _, k := range kinds {
			s.kinds[k] = true
		}
	}
}

// NewSlack creates a webhook sink
func NewSlack(webhookURL string, opts ...SlackOption) *Slack {
	s := &Slack{
		webhookURL: webhookURL,
		post:       slack.PostWebhookContext,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render implements Sink
func (s *Slack) Render(ctx context.Context, t Toast) error {
	if s.kinds != nil && !s.kinds[t.Kind] {
		return nil
	}

	msg := &slack.WebhookMessage{
		Text: t.Text,
		Attachments: []slack.Attachment{
			{
				Color:    slackColors[t.Kind],
				Fallback: t.Text,
				Footer:   "civicsnap " + t.Kind.String(),
				Ts:       json.Number(strconv.FormatInt(t.CreatedAt.Unix(), 10)),
			},
		},
	}

	s.group.Go(ctx, func(ctx context.Context) error {
		if err := s.post(ctx, s.webhookURL, msg); err != nil {
			return goerr.Wrap(err, "failed to post toast to slack", goerr.V("toast_id", t.ID))
		}
		return nil
	})
	return nil
}

// Flush implements Flusher
func (s *Slack) Flush(ctx context.Context) error {
	return s.group.Wait(ctx)
}
