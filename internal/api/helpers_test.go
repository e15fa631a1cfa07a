package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/api/middleware"
	"github.com/phrazzld/flashdeck/internal/mocks"
	"github.com/phrazzld/flashdeck/internal/service"
	"github.com/phrazzld/flashdeck/internal/service/auth"
	"github.com/stretchr/testify/require"
)

// envelope mirrors the response body for decoding in tests.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	TraceID string          `json:"trace_id"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter wires the handlers to a chi router. Tokens of the form
// "user-<uuid>" authenticate as that user.
func newTestRouter(authSvc *mocks.MockAuthService, deckSvc *mocks.MockDeckService) http.Handler {
	if authSvc.AuthenticateFn == nil {
		authSvc.AuthenticateFn = func(ctx context.Context, token string) (*auth.Claims, error) {
			const prefix = "user-"
			if len(token) > len(prefix) && token[:len(prefix)] == prefix {
				if id, err := uuid.Parse(token[len(prefix):]); err == nil {
					return &auth.Claims{UserID: id, ID: "jti-" + id.String()}, nil
				}
			}
			return nil, &service.Error{Op: "authenticate", Kind: service.ErrUnauthorized, Err: auth.ErrInvalidToken}
		}
	}

	r := chi.NewRouter()
	RegisterRoutes(r,
		NewUserHandler(authSvc, discardLogger()),
		NewDeckHandler(deckSvc, discardLogger()),
		middleware.NewAuthMiddleware(authSvc))
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(method, path, reader)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w.Code, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
