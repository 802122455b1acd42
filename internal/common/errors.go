// Package common defines shared constants and sentinel errors used across
// the server, the storage layer and the admin CLI. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Admin bearer token errors (invalid signature, wrong role, malformed).
	ErrInvalidToken = errors.New("invalid token")
)
