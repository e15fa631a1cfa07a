package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory client honoring expirations against a fixed clock.
type fakeClient struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
	err     error
	closed  bool
}

func newFakeClient(now func() time.Time) *fakeClient {
	return &fakeClient{entries: make(map[string]time.Time), now: now}
}

func (f *fakeClient) Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewStatusResult("", f.err)
	}
	f.entries[key] = f.now().Add(expiration)
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Exists(ctx context.Context, keys ...string) *goredis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return goredis.NewIntResult(0, f.err)
	}
	var n int64
	for _, key := range keys {
		if exp, ok := f.entries[key]; ok && f.now().Before(exp) {
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (f *fakeClient) Ping(ctx context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", f.err)
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestTokenDenylist(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	t.Run("revoked token is reported until expiry", func(t *testing.T) {
		t.Parallel()
		now := base
		clock := func() time.Time { return now }
		fc := newFakeClient(clock)
		d := newTokenDenylist(fc, nil, clock)

		require.NoError(t, d.Revoke(ctx, "jti-1", base.Add(time.Hour)))

		revoked, err := d.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)

		assert.Equal(t, base.Add(time.Hour), fc.entries[keyPrefix+"jti-1"])

		now = base.Add(2 * time.Hour)
		revoked, err = d.IsRevoked(ctx, "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("unknown token is not revoked", func(t *testing.T) {
		t.Parallel()
		clock := func() time.Time { return base }
		d := newTokenDenylist(newFakeClient(clock), nil, clock)

		revoked, err := d.IsRevoked(ctx, "never-seen")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("expired token is not stored", func(t *testing.T) {
		t.Parallel()
		clock := func() time.Time { return base }
		fc := newFakeClient(clock)
		d := newTokenDenylist(fc, nil, clock)

		require.NoError(t, d.Revoke(ctx, "old", base.Add(-time.Minute)))
		assert.Empty(t, fc.entries)
	})

	t.Run("client errors are returned", func(t *testing.T) {
		t.Parallel()
		clock := func() time.Time { return base }
		fc := newFakeClient(clock)
		fc.err = errors.New("connection refused")
		d := newTokenDenylist(fc, nil, clock)

		assert.Error(t, d.Revoke(ctx, "jti", base.Add(time.Hour)))
		_, err := d.IsRevoked(ctx, "jti")
		assert.Error(t, err)
		assert.Error(t, d.Ping(ctx))
	})

	t.Run("close", func(t *testing.T) {
		t.Parallel()
		clock := func() time.Time { return base }
		fc := newFakeClient(clock)
		d := newTokenDenylist(fc, nil, clock)

		require.NoError(t, d.Close())
		assert.True(t, fc.closed)
	})
}

func TestConnectInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := Connect(context.Background(), "not-a-redis-url", nil)
	assert.Error(t, err)
}
