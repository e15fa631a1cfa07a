package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
)

// Error kinds. Callers check them with errors.Is; the API layer maps each to
// an HTTP status code.
var (
	// ErrValidation indicates invalid input. It is the domain sentinel, so
	// domain validation errors match it without translation.
	ErrValidation = domain.ErrValidation

	// ErrConflict indicates a uniqueness violation, such as a taken email.
	ErrConflict = errors.New("conflict")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates the caller is not authenticated, or the
	// authenticated principal no longer exists.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInternal indicates an unexpected failure. Its cause is never shown to clients.
	ErrInternal = errors.New("internal error")

	// ErrRevocationUnavailable is returned by Logout when no token denylist is configured.
	ErrRevocationUnavailable = errors.New("token revocation is not configured")

	// ErrTokenRevoked indicates the presented token was logged out.
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Error is the error type returned by service operations.
// Both Kind and Err are reachable through errors.Is and errors.As.
type Error struct {
	Op   string // operation that failed, e.g. "register"
	Kind error  // one of the kinds above
	Err  error  // underlying cause, may be nil
}

// Error implements the error interface for Error.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

// Unwrap returns both the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// newError creates an Error with an explicit kind.
func newError(op string, kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// wrapError classifies err by its store or domain sentinel. Errors that are
// already service errors are returned unchanged.
func wrapError(op string, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return newError(op, classify(err), err)
}

func classify(err error) error {
	switch {
	case domain.IsValidationError(err), errors.Is(err, store.ErrInvalidEntity):
		return ErrValidation
	case store.IsDuplicateError(err):
		return ErrConflict
	case store.IsNotFoundError(err):
		return ErrNotFound
	default:
		return ErrInternal
	}
}

// KindOf returns the kind of err. Errors from outside this package are
// classified by their store or domain sentinel.
func KindOf(err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return classify(err)
}
