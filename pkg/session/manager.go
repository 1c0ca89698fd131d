// Package session owns the persisted authenticated-user record. Views read
// it through Manager and never touch the underlying store directly.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"golang.org/x/oauth2"
)

// Manager is the session accessor injected into the API client and views
type Manager struct {
	store Store
	mu    sync.Mutex
	now   func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source used for token expiry checks
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session accessor over store
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Save persists the token and the user record of a successful login
func (m *Manager) Save(ctx context.Context, result *model.LoginResult) error {
	if result == nil || result.Token == "" {
		return goerr.New("login result has no token")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return goerr.Wrap(err, "failed to encode session user")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(ctx, KeyToken, result.Token); err != nil {
		return err
	}
	if err := m.store.Set(ctx, KeyUser, string(data)); err != nil {
		return err
	}

	ctxlog.From(ctx).Debug("Session saved",
		"user", result.Name,
		"role", result.Role,
	)
	return nil
}

// Clear removes both keys. Clearing an absent session is not an error.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Delete(ctx, KeyToken, KeyUser); err != nil {
		return goerr.Wrap(err, "failed to clear session")
	}
	return nil
}

// AccessToken returns the stored token, or "" if absent or expired
func (m *Manager) AccessToken(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok, err := m.store.Get(ctx, KeyToken)
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to read session token", "error", err)
		return ""
	}
	if !ok || token == "" || m.expired(token) {
		return ""
	}
	return token
}

// Current returns the stored user, or nil when there is no usable session.
// A corrupt record reads as no session.
func (m *Manager) Current(ctx context.Context) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok, err := m.store.Get(ctx, KeyUser)
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to read session user", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		ctxlog.From(ctx).Warn("Ignoring corrupt session record", "error", err)
		return nil
	}
	if user.Token != "" && m.expired(user.Token) {
		return nil
	}
	return &user
}

// IsAdmin reports whether the current session carries the admin role
func (m *Manager) IsAdmin(ctx context.Context) bool {
	return m.Current(ctx).IsAdmin()
}

// Token implements oauth2.TokenSource so the HTTP transport can attach it
func (m *Manager) Token() (*oauth2.Token, error) {
	token := m.AccessToken(context.Background())
	if token == "" {
		return nil, model.ErrNoSession
	}

	tok := &oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}
	if exp := expiration(token); !exp.IsZero() {
		tok.Expiry = exp
	}
	return tok, nil
}

// Expiry returns the token expiration if the token is a JWT carrying exp
func (m *Manager) Expiry(ctx context.Context) time.Time {
	token := m.AccessToken(ctx)
	if token == "" {
		return time.Time{}
	}
	return expiration(token)
}

func (m *Manager) expired(token string) bool {
	exp := expiration(token)
	return !exp.IsZero() && !m.now().Before(exp)
}

// expiration reads exp without verifying the signature. Opaque tokens
// return the zero time and never expire client-side.
func expiration(token string) time.Time {
	parsed, err := jwt.ParseString(token, jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return time.Time{}
	}
	return parsed.Expiration()
}

var _ oauth2.TokenSource = (*Manager)(nil)
