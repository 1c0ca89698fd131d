package model

import (
	"time"

	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// Account is a user record held by the local sandbox backend
type Account struct {
	ID           types.UserID
	Name         string
	Email        string
	PasswordHash []byte
	Role         types.Role
	CreatedAt    time.Time
}

// Image is an uploaded image held by the local sandbox backend
type Image struct {
	Name        string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}
