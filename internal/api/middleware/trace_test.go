package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger()

	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})
	handler := NewTraceMiddleware(log)(next)

	t.Run("generates trace id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		_, err := ulid.ParseStrict(seen)
		require.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(shared.TraceIDHeader))
		assert.Contains(t, buf.String(), `"trace_id":"`+seen+`"`)
		assert.Contains(t, buf.String(), `"status":418`)
	})

	t.Run("keeps valid incoming trace id", func(t *testing.T) {
		incoming := ulid.Make().String()
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.Header.Set(shared.TraceIDHeader, incoming)

		handler.ServeHTTP(httptest.NewRecorder(), r)
		assert.Equal(t, incoming, seen)
	})

	t.Run("replaces malformed incoming trace id", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/health", nil)
		r.Header.Set(shared.TraceIDHeader, "<script>")

		handler.ServeHTTP(httptest.NewRecorder(), r)
		assert.NotEqual(t, "<script>", seen)
	})
}
