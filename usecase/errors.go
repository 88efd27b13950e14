package usecase

import "errors"

// Error taxonomy shared by the auth, user and content services.
// Handlers map these to HTTP statuses; everything else is surfaced as
// a generic 500 and logged server-side.
var (
	// ErrInvalidCredentials deliberately covers both an unknown email
	// and a wrong password, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrNoSession      = errors.New("no session found")
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")

	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrPathNotAllowed = errors.New("path not allowed")
	ErrEmailTaken     = errors.New("email already registered")
	ErrValidation     = errors.New("validation failed")
)
