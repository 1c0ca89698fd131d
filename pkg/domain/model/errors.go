package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrImageRequired = goerr.New("Please upload an image first")
	ErrNoSession     = goerr.New("no active session")
)
