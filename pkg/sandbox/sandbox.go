// Package sandbox runs an in-memory implementation of the civic issue
// backend. It serves the same HTTP contract as the real service and is used
// by tests and by the sandbox command for local work without a backend.
package sandbox

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	ctrlhttp "github.com/secmon-lab/civicsnap/pkg/controller/http"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/repository"
	"github.com/secmon-lab/civicsnap/pkg/usecase"
)

// Seeded admin account defaults
const (
	DefaultAdminName     = "Admin"
	DefaultAdminEmail    = "admin@civicsnap.local"
	DefaultAdminPassword = "admin123"
)

// Sandbox is a running in-memory backend
type Sandbox struct {
	server   *ctrlhttp.Server
	listener net.Listener
	baseURL  string
	errCh    chan error

	repo   *repository.Memory
	auth   *usecase.Auth
	issues *usecase.Issue
}

type config struct {
	addr        string
	publicURL   string
	admin       model.Registration
	tokenSecret []byte
	samples     bool
}

// Option configures a sandbox
type Option func(*config)

// WithAddr sets the listen address. The default picks a free local port.
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithPublicURL sets the base URL used in uploaded image references
func WithPublicURL(u string) Option {
	return func(c *config) {
		c.publicURL = u
	}
}

// WithAdmin sets the seeded admin account
func WithAdmin(name, email, password string) Option {
	return func(c *config) {
		c.admin = model.Registration{Name: name, Email: email, Password: password}
	}
}

// WithTokenSecret fixes the token signing key so tokens survive restarts
func WithTokenSecret(secret []byte) Option {
	return func(c *config) {
		c.tokenSecret = secret
	}
}

// WithSampleIssues seeds a few demo issues
func WithSampleIssues(enabled bool) Option {
	return func(c *config) {
		c.samples = enabled
	}
}

// Start wires the backend, binds the listener and serves in the background
func Start(ctx context.Context, opts ...Option) (*Sandbox, error) {
	cfg := &config{
		addr: "127.0.0.1:0",
		admin: model.Registration{
			Name:     DefaultAdminName,
			Email:    DefaultAdminEmail,
			Password: DefaultAdminPassword,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	repo := repository.NewMemory()
	var authOpts []usecase.AuthOption
	if len(cfg.tokenSecret) > 0 {
		authOpts = append(authOpts, usecase.WithTokenSecret(cfg.tokenSecret))
	}
	auth, err := usecase.NewAuth(ctx, repo, authOpts...)
	if err != nil {
		return nil, err
	}
	issues := usecase.NewIssue(ctx, repo)

	if _, err := auth.CreateAdmin(ctx, &cfg.admin); err != nil {
		return nil, goerr.Wrap(err, "failed to seed admin account", goerr.V("email", cfg.admin.Email))
	}

	listener, err := net.Listen("tcp", cfg.addr)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to listen", goerr.V("addr", cfg.addr))
	}

	server := ctrlhttp.NewServer(ctx, listener.Addr().String(), &ctrlhttp.UseCases{
		Auth:  auth,
		Issue: issues,
		Image: usecase.NewImage(ctx, repo),
	}, cfg.publicURL)

	sb := &Sandbox{
		server:   server,
		listener: listener,
		baseURL:  "http://" + listener.Addr().String(),
		errCh:    make(chan error, 1),
		repo:     repo,
		auth:     auth,
		issues:   issues,
	}

	if cfg.samples {
		if err := sb.seedSamples(ctx); err != nil {
			_ = listener.Close()
			return nil, err
		}
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sb.errCh <- goerr.Wrap(err, "sandbox server failed")
		}
		close(sb.errCh)
	}()

	ctxlog.From(ctx).Info("Sandbox backend started",
		"url", sb.APIURL(),
		"admin", cfg.admin.Email,
	)
	return sb, nil
}

// URL returns the server root, e.g. http://127.0.0.1:43210
func (s *Sandbox) URL() string {
	return s.baseURL
}

// APIURL returns the API base URL to hand to the client
func (s *Sandbox) APIURL() string {
	return s.baseURL + "/api"
}

// Wait blocks until ctx is done or the server fails, then shuts down
func (s *Sandbox) Wait(ctx context.Context) error {
	select {
	case err := <-s.errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shut down sandbox")
	}
	return nil
}

// Close stops the server immediately
func (s *Sandbox) Close() error {
	return s.server.Close()
}

// IssueCount returns the number of stored issues
func (s *Sandbox) IssueCount() int {
	return s.repo.Count()
}

// RegisterCitizen creates a citizen account
func (s *Sandbox) RegisterCitizen(ctx context.Context, name, email, password string) error {
	_, err := s.auth.Register(ctx, &model.Registration{Name: name, Email: email, Password: password})
	return err
}

var sampleIssues = []struct {
	image       string
	description string
	lat, lng    float64
	city        string
}{
	{"pothole-main-road.jpg", "Deep pothole near the bus stop", 28.7041, 77.1025, "Delhi"},
	{"garbage-market.jpg", "Garbage not collected for a week", 28.6139, 77.2090, "Delhi"},
	{"streetlight-park.jpg", "Street light out at the park gate", 19.0760, 72.8777, "Mumbai"},
}

func (s *Sandbox) seedSamples(ctx context.Context) error {
	for _, sample := range sampleIssues {
		_, err := s.issues.Create(ctx, &model.CreateIssueRequest{
			ImageURL:    s.baseURL + "/uploads/" + sample.image,
			Description: sample.description,
			Location: model.RequestLocation{
				Latitude:  sample.lat,
				Longitude: sample.lng,
				City:      sample.city,
			},
		})
		if err != nil {
			return goerr.Wrap(err, "failed to seed sample issue", goerr.V("image", sample.image))
		}
	}
	return nil
}
