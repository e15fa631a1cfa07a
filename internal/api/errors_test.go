package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/service"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/assert"
)

func svcErr(kind, cause error) error {
	return &service.Error{Op: "test", Kind: kind, Err: cause}
}

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", svcErr(service.ErrValidation, domain.ErrEmptyDeckTitle), http.StatusBadRequest,
			"Validation error: title cannot be empty"},
		{"invalid path id", domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID),
			http.StatusBadRequest, "Validation error: id has invalid format"},
		{"unauthorized", svcErr(service.ErrUnauthorized, nil), http.StatusUnauthorized, "Unauthorized"},
		{"not owned", svcErr(service.ErrNotOwned, nil), http.StatusForbidden,
			"You do not have access to this resource"},
		{"deck not found", svcErr(service.ErrNotFound, store.ErrDeckNotFound), http.StatusNotFound, "Deck not found"},
		{"card not found", svcErr(service.ErrNotFound, store.ErrCardNotFound), http.StatusNotFound, "Card not found"},
		{"email conflict", svcErr(service.ErrConflict, store.ErrEmailExists), http.StatusConflict,
			"User with this email already exists"},
		{"revocation unavailable", svcErr(service.ErrRevocationUnavailable, nil), http.StatusNotImplemented,
			"Logout is not supported by this server"},
		{"internal wrapping not found", svcErr(service.ErrInternal, store.ErrUserNotFound),
			http.StatusInternalServerError, "An unexpected error occurred"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, MapErrorToStatusCode(tt.err))
			assert.Equal(t, tt.msg, GetSafeErrorMessage(tt.err))
		})
	}

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestHandleAPIError_NeverLeaksInternals(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("query failed: pq: password authentication failed for user \"admin\" at /srv/app/store.go:42")
	r := httptest.NewRequest(http.MethodGet, "/decks", nil)
	w := httptest.NewRecorder()

	HandleAPIError(w, r, svcErr(service.ErrInternal, cause), "custom message is ignored for 5xx")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"status":"error","error":"An unexpected error occurred"}`, w.Body.String())
}

func TestHandleAPIError_CustomClientMessage(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/decks", nil)
	w := httptest.NewRecorder()

	HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"status":"error","error":"User ID not found or invalid"}`, w.Body.String())
}
