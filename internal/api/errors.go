package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/service"
	"github.com/phrazzld/flashdeck/internal/store"
)

// Client-facing messages.
const (
	msgInvalidCredentials = "Invalid credentials"
	msgEmailExists        = "User with this email already exists"
	msgUnexpected         = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error kind. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Internal is checked first so a wrapped cause never upgrades it.
	case errors.Is(err, service.ErrInternal):
		return http.StatusInternalServerError

	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case domain.IsValidationError(err),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrRevocationUnavailable):
		return http.StatusNotImplemented

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	switch MapErrorToStatusCode(err) {
	case http.StatusUnauthorized:
		return "Unauthorized"

	case http.StatusForbidden:
		return "You do not have access to this resource"

	case http.StatusNotFound:
		switch {
		case errors.Is(err, store.ErrDeckNotFound):
			return "Deck not found"
		case errors.Is(err, store.ErrCardNotFound):
			return "Card not found"
		case errors.Is(err, store.ErrUserNotFound):
			return "User not found"
		default:
			return "Resource not found"
		}

	case http.StatusConflict:
		if errors.Is(err, store.ErrEmailExists) {
			return msgEmailExists
		}
		return "Resource already exists"

	case http.StatusBadRequest:
		// Validation messages name a field and a rule; they carry no internals.
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return "Validation error: " + vErr.Error()
		}
		return "Validation error"

	case http.StatusNotImplemented:
		return "Logout is not supported by this server"

	default:
		return msgUnexpected
	}
}

// HandleAPIError writes the error response for err. A non-empty message
// replaces the derived client message for 4xx responses; 5xx responses
// always use the generic message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" || status >= http.StatusInternalServerError {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
