package client

import (
	"context"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
)

var _ interfaces.AuthClient = (*Client)(nil)
var _ interfaces.Session = (*Client)(nil)

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, reg *model.Registration) (*model.User, error) {
	if reg == nil {
		return nil, &UnexpectedError{Message: "registration is nil"}
	}
	if err := reg.Validate(); err != nil {
		return nil, &UnexpectedError{Message: err.Error(), cause: err}
	}

	body, err := c.doJSON(ctx, http.MethodPost, "/auth/register", nil, reg)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := decodeData(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and persists the returned token and user record
func (c *Client) Login(ctx context.Context, cred *model.Credentials) (*model.LoginResult, error) {
	if cred == nil {
		return nil, &UnexpectedError{Message: "credentials are nil"}
	}
	if err := cred.Validate(); err != nil {
		return nil, &UnexpectedError{Message: err.Error(), cause: err}
	}

	body, err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, cred)
	if err != nil {
		return nil, err
	}

	var result model.LoginResult
	if err := decodeData(body, &result); err != nil {
		return nil, err
	}
	if result.Token == "" {
		return nil, &UnexpectedError{Message: "login response has no token"}
	}

	if err := c.session.Save(ctx, &result); err != nil {
		return nil, unexpected(goerr.Wrap(err, "failed to persist session"))
	}

	ctxlog.From(ctx).Info("Logged in", "name", result.Name, "role", result.Role)
	return &result, nil
}

// Logout clears the persisted session. It succeeds when no session exists.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.session.Clear(ctx); err != nil {
		return unexpected(err)
	}
	return nil
}

// Current returns the persisted user, or nil
func (c *Client) Current(ctx context.Context) *model.User {
	return c.session.Current(ctx)
}

// CurrentUser is an alias of Current
func (c *Client) CurrentUser(ctx context.Context) *model.User {
	return c.Current(ctx)
}

// IsAdmin reports whether the persisted user is an admin
func (c *Client) IsAdmin(ctx context.Context) bool {
	return c.session.IsAdmin(ctx)
}
