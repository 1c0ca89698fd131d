package usecase

import "github.com/m-mizutani/goerr/v2"

// Errors returned to the sandbox HTTP layer. Their text is sent to clients.
var (
	ErrInvalidCredentials = goerr.New("Invalid credentials")
	ErrEmailTaken         = goerr.New("User with this email already exists")
	ErrUnauthorized       = goerr.New("Not authorized, token failed")
	ErrInvalidStatus      = goerr.New("Invalid status")
	ErrInvalidSeverity    = goerr.New("Invalid severity")
	ErrEmptyUpdate        = goerr.New("No fields to update")
	ErrNoImage            = goerr.New("No image uploaded")
	ErrNotImage           = goerr.New("Only image files are allowed")
	ErrImageTooLarge      = goerr.New("Image size must be less than 5MB")
)
