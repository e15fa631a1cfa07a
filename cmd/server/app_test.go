package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:                   8080,
			LogLevel:               "debug",
			Environment:            "test",
			ReadTimeoutSeconds:     5,
			WriteTimeoutSeconds:    5,
			ShutdownTimeoutSeconds: 5,
		},
		Database: config.DatabaseConfig{
			URL:          "postgres://localhost/flashdeck_test",
			MaxOpenConns: 2,
			MaxIdleConns: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-that-is-at-least-32-chars-long",
			BCryptCost:           4,
			TokenLifetimeMinutes: 60,
		},
	}
}

// newTestApplication wires an application around a sqlmock database with
// ping monitoring enabled.
func newTestApplication(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(context.Background(), testConfig(), logger, db)
	require.NoError(t, err)

	t.Cleanup(func() {
		mock.ExpectClose()
		app.cleanup()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	return app, mock
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	TraceID string          `json:"trace_id"`
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestNewApplication_NoRedisDisablesDenylist(t *testing.T) {
	app, _ := newTestApplication(t)

	assert.Nil(t, app.denylist)
	assert.NotNil(t, app.userHandler)
	assert.NotNil(t, app.deckHandler)
	assert.NotNil(t, app.authMiddleware)
	assert.Equal(t, 5*time.Second, app.shutdownTimeout())
}

func TestNewApplication_RedisUnreachable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() {
		mock.ExpectClose()
		require.NoError(t, db.Close())
	}()

	cfg := testConfig()
	cfg.Redis.URL = "redis://127.0.0.1:1/0"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(ctx, cfg, logger, db)

	require.Error(t, err)
	assert.Nil(t, app)
	assert.Contains(t, err.Error(), "redis")
}

func TestHealth(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		app, mock := newTestApplication(t)
		mock.ExpectPing()

		rec, env := doRequest(t, app.setupRouter(), http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", env.Status)

		var health healthResponse
		require.NoError(t, json.Unmarshal(env.Data, &health))
		assert.Equal(t, "ok", health.Status)
		assert.Equal(t, "ok", health.Database)
		assert.Empty(t, health.Redis)
	})

	t.Run("database down", func(t *testing.T) {
		app, mock := newTestApplication(t)
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		rec, env := doRequest(t, app.setupRouter(), http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, "Database unavailable", env.Error)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestRouter_TraceHeader(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectPing()

	rec, _ := doRequest(t, app.setupRouter(), http.MethodGet, "/health", "")

	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestRouter_APIRoutesMounted(t *testing.T) {
	app, _ := newTestApplication(t)
	router := app.setupRouter()

	t.Run("register validates before touching the database", func(t *testing.T) {
		rec, env := doRequest(t, router, http.MethodPost, "/users/register", `{"email":"not-an-email","password":"secret123"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid email: invalid email format", env.Error)
	})

	t.Run("deck routes require a token", func(t *testing.T) {
		rec, env := doRequest(t, router, http.MethodGet, "/decks", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Authorization header required", env.Error)
	})

	t.Run("unknown route is enveloped", func(t *testing.T) {
		rec, env := doRequest(t, router, http.MethodGet, "/nope", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, "Resource not found", env.Error)
		assert.NotEmpty(t, env.TraceID)
	})

	t.Run("wrong method is enveloped", func(t *testing.T) {
		rec, env := doRequest(t, router, http.MethodDelete, "/health", "")

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, "Method not allowed", env.Error)
	})
}

func TestRouter_Metrics(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectPing()
	router := app.setupRouter()

	doRequest(t, router, http.MethodGet, "/health", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `flashdeck_http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, "go_sql_max_open_connections")
}

func TestServeListener_GracefulShutdown(t *testing.T) {
	app, mock := newTestApplication(t)
	mock.ExpectPing()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.serveListener(ctx, listener)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
