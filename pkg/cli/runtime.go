package cli

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/session"
	"github.com/secmon-lab/civicsnap/pkg/toast"
	"github.com/secmon-lab/civicsnap/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

// runtime is what a command works with: the client, the session and the
// toast display running in the background
type runtime struct {
	client  *client.Client
	session *session.Manager
	store   session.Store
	bus     *toast.Bus
	display <-chan struct{}
	nav     *router
	out     io.Writer
}

// open applies the profile and wires the client, session and toasts
func (g *globals) open(ctx context.Context, cmd *cli.Command) (*runtime, error) {
	if err := g.profile.Load(); err != nil {
		return nil, err
	}
	g.api.ApplyProfile(&g.profile, cmd.IsSet)
	g.session.ApplyProfile(&g.profile, cmd.IsSet)
	g.notify.ApplyProfile(&g.profile, cmd.IsSet)

	ctxlog.From(ctx).Debug("Configuration",
		"profile", g.profile,
		"api", g.api,
		"session", g.session,
		"notify", g.notify,
	)

	sess, store, err := g.session.Configure(ctx)
	if err != nil {
		return nil, err
	}
	c, err := g.api.Configure(sess)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	out := writer(cmd)
	bus, display := g.notify.Configure(out)

	return &runtime{
		client:  c,
		session: sess,
		store:   store,
		bus:     bus,
		display: async.Dispatch(ctx, display.Run),
		nav:     &router{},
		out:     out,
	}, nil
}

// Close drains the toasts and closes the session store
func (r *runtime) Close() error {
	r.bus.Close()
	<-r.display
	return r.store.Close()
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// router records navigation requested by views. A terminal has no page to
// switch, so the last route becomes a hint for the next command.
type router struct {
	mu    sync.Mutex
	paths []string
}

func (r *router) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *router) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return ""
	}
	return r.paths[len(r.paths)-1]
}
