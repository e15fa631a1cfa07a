package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/flashdeck/internal/api"
	"github.com/phrazzld/flashdeck/internal/api/middleware"
	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/platform/postgres"
	"github.com/phrazzld/flashdeck/internal/platform/redis"
	"github.com/phrazzld/flashdeck/internal/service"
	"github.com/phrazzld/flashdeck/internal/service/auth"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds the wired dependencies of a running server.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	denylist *redis.TokenDenylist // nil when Redis is not configured
	registry *prometheus.Registry

	userHandler    *api.UserHandler
	deckHandler    *api.DeckHandler
	authMiddleware *middleware.AuthMiddleware
}

// newApplication wires stores, services and handlers around an open database.
// The caller keeps ownership of db until cleanup is called.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		registry: prometheus.NewRegistry(),
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "flashdeck"),
	)

	// Left as a nil interface unless Redis connects, so the auth service
	// sees "no denylist" rather than a typed nil.
	var denylist store.TokenDenylist
	if cfg.Redis.URL != "" {
		d, err := redis.Connect(ctx, cfg.Redis.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.denylist = d
		denylist = d
	} else {
		logger.Warn("redis.url not set, logout is disabled")
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.closeDenylist()
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)

	userStore := postgres.NewPostgresUserStore(db, logger)
	deckStore := postgres.NewPostgresDeckStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)

	authService, err := service.NewAuthService(db, userStore, hasher, jwtService, denylist, logger)
	if err != nil {
		app.closeDenylist()
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	deckService, err := service.NewDeckService(db, deckStore, cardStore, logger)
	if err != nil {
		app.closeDenylist()
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}

	app.userHandler = api.NewUserHandler(authService, logger)
	app.deckHandler = api.NewDeckHandler(deckService, logger)
	app.authMiddleware = middleware.NewAuthMiddleware(authService)

	return app, nil
}

// cleanup releases external connections. It is safe to call more than once.
func (app *application) cleanup() {
	app.closeDenylist()
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
		app.db = nil
	}
}

func (app *application) closeDenylist() {
	if app.denylist == nil {
		return
	}
	if err := app.denylist.Close(); err != nil {
		app.logger.Error("failed to close redis client", slog.String("error", err.Error()))
	}
	app.denylist = nil
}

// shutdownTimeout returns the configured graceful shutdown window.
func (app *application) shutdownTimeout() time.Duration {
	return time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
}
