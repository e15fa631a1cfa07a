package store

import (
	"context"
	"time"
)

// TokenDenylist records revoked session tokens until they would have
// expired anyway. Implementations must treat an entry whose expiry has
// passed as absent.
type TokenDenylist interface {
	// Revoke marks tokenID as revoked until expiresAt.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether tokenID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
