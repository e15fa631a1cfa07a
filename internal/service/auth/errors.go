package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken is returned for any token that fails validation: bad
	// format, wrong signature, wrong algorithm or past expiry. Callers cannot
	// tell these apart; the reason is logged at debug level.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWeakSecret is returned when the signing key is shorter than MinSecretLength.
	ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")
)
