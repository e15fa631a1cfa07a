// Package redis provides the Redis-backed token denylist used for logout.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// keyPrefix namespaces denylist entries in a shared Redis database.
const keyPrefix = "flashdeck:revoked:"

// client is the subset of *goredis.Client the denylist uses.
type client interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
	Ping(ctx context.Context) *goredis.StatusCmd
	Close() error
}

// TokenDenylist implements store.TokenDenylist on Redis. Entries expire
// together with the token they revoke, so the set never grows unbounded.
type TokenDenylist struct {
	client  client
	logger  *slog.Logger
	nowFunc func() time.Time
}

// Ensure TokenDenylist implements store.TokenDenylist interface
var _ store.TokenDenylist = (*TokenDenylist)(nil)

// Connect parses redisURL, verifies connectivity with a ping and returns a denylist.
func Connect(ctx context.Context, redisURL string, logger *slog.Logger) (*TokenDenylist, error) {
	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opt.PoolSize = 10
	opt.MinIdleConns = 2
	opt.PoolTimeout = 4 * time.Second
	opt.ConnMaxIdleTime = 5 * time.Minute

	c := goredis.NewClient(opt)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return newTokenDenylist(c, logger, time.Now), nil
}

func newTokenDenylist(c client, logger *slog.Logger, now func() time.Time) *TokenDenylist {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenDenylist{
		client:  c,
		logger:  logger.With(slog.String("component", "token_denylist")),
		nowFunc: now,
	}
}

// Revoke implements store.TokenDenylist.Revoke.
// A token that has already expired needs no entry.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, d.logger)

	ttl := expiresAt.Sub(d.nowFunc())
	if ttl <= 0 {
		log.Debug("token already expired, nothing to revoke")
		return nil
	}

	if err := d.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		log.Error("failed to revoke token", slog.String("error", err.Error()))
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	log.Debug("token revoked", slog.Duration("ttl", ttl))
	return nil
}

// IsRevoked implements store.TokenDenylist.IsRevoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		logger.FromContextOrDefault(ctx, d.logger).Error("failed to check token denylist",
			slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to check token denylist: %w", err)
	}
	return n > 0, nil
}

// Ping checks Redis connectivity.
func (d *TokenDenylist) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (d *TokenDenylist) Close() error {
	return d.client.Close()
}
