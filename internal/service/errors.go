// Package service provides business logic services for the Fieldworks API.
package service

import "errors"

// Common service errors.
var (
	// ErrInternalError wraps unexpected infrastructure failures.
	ErrInternalError = errors.New("internal server error")

	// ErrInvalidID indicates a malformed resource identifier.
	ErrInvalidID = errors.New("invalid resource id")

	// ErrPasswordTooShort indicates a password below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// ErrNameRequired indicates a missing user name at registration.
	ErrNameRequired = errors.New("please provide a name")

	// ErrEmailRequired indicates a missing email at registration or login.
	ErrEmailRequired = errors.New("please provide an email")
)
