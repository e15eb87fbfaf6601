// Package common defines sentinel errors and constants shared by the server
// layers and the terminal client. Callers should use errors.Is to match
// these values.
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

	// ErrorInvalidCredentials is returned for both an unknown nickname and a
	// wrong password.
	ErrorInvalidCredentials = errors.New("incorrect nickname or password")

	// Session token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrContentUnavailable means the course catalog could not be read or
	// parsed.
	ErrContentUnavailable = errors.New("content unavailable")
)
