package services

import "errors"

// Error kinds surfaced by the auth core. All are terminal for the request;
// nothing here is retried internally. Handlers match with errors.Is and map
// each kind to its own HTTP status.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingEmail       = errors.New("identity token carries no email")
	ErrVerificationFailed = errors.New("identity token verification failed")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
