package view

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
)

// Messages of the login view
const (
	LoginSuccessMessage = "Login successful!"
	LoginFailedMessage  = "Login failed"
)

// Login submits credentials and routes by role on success
type Login struct {
	auth   interfaces.AuthClient
	notify interfaces.Notifier
	nav    interfaces.Navigator

	mu      sync.Mutex
	loading bool
}

// NewLogin creates the login view
func NewLogin(auth interfaces.AuthClient, notify interfaces.Notifier, nav interfaces.Navigator) *Login {
	return &Login{auth: auth, notify: notify, nav: nav}
}

// Loading reports whether a login is in flight
func (l *Login) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Submit logs in. Admins land on the admin dashboard, everyone else on the
// public dashboard.
func (l *Login) Submit(ctx context.Context, cred model.Credentials) (*model.User, error) {
	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return nil, ErrActionInFlight
	}
	l.loading = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.loading = false
		l.mu.Unlock()
	}()

	user, err := l.auth.Login(ctx, &cred)
	if err != nil {
		msg := client.Message(err)
		if msg == "" {
			msg = LoginFailedMessage
		}
		l.notify.Error(msg)
		return nil, goerr.Wrap(err, "login failed")
	}

	l.notify.Success(LoginSuccessMessage)
	if user.IsAdmin() {
		l.nav.Navigate(RouteAdminDashboard)
	} else {
		l.nav.Navigate(RouteDashboard)
	}
	return user, nil
}
