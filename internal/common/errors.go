// Package common defines shared sentinel errors used across CampusLink
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound       = errors.New("not found")
	ErrorDuplicateEmail = errors.New("email already registered")

	// Service-level errors (generic/internal flow control).
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// Credential errors. Unknown email and wrong password intentionally
	// collapse into the same value so callers cannot tell them apart.
	ErrorInvalidCredentials = errors.New("invalid email or password")

	// Auth errors (missing, malformed, forged or expired token).
	ErrorInvalidToken = errors.New("invalid token")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
)
