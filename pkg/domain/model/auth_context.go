package model

import (
	"context"

	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

type contextKey string

const authContextKey contextKey = "authContext"

// AuthContext is the authenticated principal of a sandbox request
type AuthContext struct {
	UserID types.UserID
	Name   string
	Role   types.Role
}

// NewAuthContext creates an AuthContext from an authenticated user
func NewAuthContext(user *User) *AuthContext {
	if user == nil {
		return nil
	}
	return &AuthContext{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}
}

// IsAdmin reports whether the principal carries the admin role
func (a *AuthContext) IsAdmin() bool {
	return a != nil && a.Role.IsAdmin()
}

// WithAuthContext adds AuthContext to the context
func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	if authCtx == nil {
		return ctx
	}
	return context.WithValue(ctx, authContextKey, authCtx)
}

// GetAuthContext retrieves AuthContext from the context
func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	authCtx, ok := ctx.Value(authContextKey).(*AuthContext)
	return authCtx, ok && authCtx != nil
}
