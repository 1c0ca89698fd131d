package model

import "github.com/secmon-lab/civicsnap/pkg/domain/types"

// User is the persisted session record: at least name, role and token
type User struct {
	ID    types.UserID `json:"_id,omitempty"`
	Name  string       `json:"name"`
	Email string       `json:"email,omitempty"`
	Role  types.Role   `json:"role"`
	Token string       `json:"token"`
}

// IsAdmin returns true if the user carries the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role.IsAdmin()
}

// Credentials is the body of POST /auth/login
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Validate checks the credentials before they are sent
func (c *Credentials) Validate() error {
	return validationError(validate.Struct(c))
}

// Registration is the body of POST /auth/register
type Registration struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate checks the registration before it is sent
func (r *Registration) Validate() error {
	return validationError(validate.Struct(r))
}

// LoginResult is the data block of a successful login response.
// The whole record is persisted as the session user.
type LoginResult = User
