package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flashdeck/internal/api"
	"github.com/phrazzld/flashdeck/internal/api/middleware"
	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthCheckTimeout = 2 * time.Second

// healthResponse is the payload of GET /health.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
}

// setupRouter builds the HTTP handler with global middleware, operational
// endpoints and the API routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	metrics := middleware.NewMetrics(app.registry)

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Handler)
	r.Use(middleware.NewTimeoutMiddleware(time.Duration(app.config.Server.WriteTimeoutSeconds) * time.Second))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", app.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	api.RegisterRoutes(r, app.userHandler, app.deckHandler, app.authMiddleware)

	return r
}

// handleHealth reports liveness, checking the database and, when configured,
// the Redis denylist.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}

	resp := healthResponse{Status: "ok", Database: "ok"}

	if app.denylist != nil {
		if err := app.denylist.Ping(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Redis unavailable", err)
			return
		}
		resp.Redis = "ok"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
