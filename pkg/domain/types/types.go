package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// IssueID represents a backend-assigned issue identifier
type IssueID string

// String returns the string representation
func (id IssueID) String() string {
	return string(id)
}

// Validate checks if the issue ID is valid (non-empty)
func (id IssueID) Validate() error {
	if id == "" {
		return goerr.New("issue ID cannot be empty")
	}
	return nil
}

// UserID represents a user identifier
type UserID string

// String returns the string representation
func (id UserID) String() string {
	return string(id)
}

// Role is the role attached to an authenticated session
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCitizen Role = "citizen"
)

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// IsAdmin returns true only for the admin role. Any other value,
// including an empty one, is treated as an ordinary citizen.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// ToastKind is the visual kind of a transient notification
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
	ToastWarning ToastKind = "warning"
)

// String returns the string representation
func (k ToastKind) String() string {
	return string(k)
}

// IsValid checks if the kind is one of the known toast kinds
func (k ToastKind) IsValid() bool {
	switch k {
	case ToastSuccess, ToastError, ToastInfo, ToastWarning:
		return true
	default:
		return false
	}
}
