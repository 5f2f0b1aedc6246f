// Package apperr holds the error kinds shared by the stores, the services and the HTTP layer.
package apperr

import "errors"

var (
	// ErrInvalidToken covers a missing, forged, malformed or expired token and a token
	// whose user no longer exists.
	ErrInvalidToken = errors.New("could not validate credentials")

	// ErrInvalidCredentials is returned by login for an unknown user and a wrong password alike.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	ErrConflict        = errors.New("already exists")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
