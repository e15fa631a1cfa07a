package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func testUser() *domain.PublicUser {
	return &domain.PublicUser{ID: uuid.New(), Email: "ada@example.com"}
}

// clock is a movable fixed time source.
type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &clock{now: fixedTime}
	svc, err := NewJWTServiceWithClock(testSecret, DefaultTokenLifetime, c.Now)
	require.NoError(t, err)

	user := testUser()
	token, expiresAt, err := svc.GenerateToken(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, fixedTime.Add(8*time.Hour), expiresAt)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	t.Run("each token has its own id", func(t *testing.T) {
		other, _, err := svc.GenerateToken(context.Background(), user)
		require.NoError(t, err)
		otherClaims, err := svc.ValidateToken(context.Background(), other)
		require.NoError(t, err)
		assert.NotEqual(t, claims.ID, otherClaims.ID)
	})

	t.Run("requires a user", func(t *testing.T) {
		_, _, err := svc.GenerateToken(context.Background(), nil)
		assert.Error(t, err)
		_, _, err = svc.GenerateToken(context.Background(), &domain.PublicUser{})
		assert.Error(t, err)
	})
}

func TestValidateToken_Expiry(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		valid   bool
	}{
		{name: "immediately", elapsed: 0, valid: true},
		{name: "just before expiry", elapsed: 8*time.Hour - time.Second, valid: true},
		{name: "at expiry", elapsed: 8 * time.Hour, valid: false},
		{name: "after expiry", elapsed: 8*time.Hour + time.Second, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &clock{now: issued}
			svc, err := NewJWTServiceWithClock(testSecret, 8*time.Hour, c.Now)
			require.NoError(t, err)

			token, _, err := svc.GenerateToken(context.Background(), testUser())
			require.NoError(t, err)

			c.now = issued.Add(tt.elapsed)
			claims, err := svc.ValidateToken(context.Background(), token)
			if tt.valid {
				require.NoError(t, err)
				assert.NotNil(t, claims)
			} else {
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Nil(t, claims)
			}
		})
	}
}

func TestValidateToken_Rejections(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &clock{now: now}
	svc, err := NewJWTServiceWithClock(testSecret, time.Hour, c.Now)
	require.NoError(t, err)

	otherKey, err := NewJWTServiceWithClock(strings.Repeat("k", 40), time.Hour, c.Now)
	require.NoError(t, err)
	foreign, _, err := otherKey.GenerateToken(context.Background(), testUser())
	require.NoError(t, err)

	good, _, err := svc.GenerateToken(context.Background(), testUser())
	require.NoError(t, err)
	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtCustomClaims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	hs512Token, err := hs512.SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{UserID: uuid.New()})
	noExpiryToken, err := noExpiry.SignedString([]byte(testSecret))
	require.NoError(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
	})
	noUserToken, err := noUser.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "signed with another key", token: foreign},
		{name: "tampered payload", token: parts[0] + "." + parts[1] + "x." + parts[2]},
		{name: "unexpected algorithm", token: hs512Token},
		{name: "missing expiry", token: noExpiryToken},
		{name: "missing user id", token: noUserToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := svc.ValidateToken(context.Background(), tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
		assert.ErrorIs(t, err, ErrWeakSecret)
	})

	t.Run("uses configured lifetime", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 30})
		require.NoError(t, err)

		before := time.Now()
		_, expiresAt, err := svc.GenerateToken(context.Background(), testUser())
		require.NoError(t, err)
		assert.WithinDuration(t, before.Add(30*time.Minute), expiresAt, 2*time.Second)
	})

	t.Run("non-positive lifetime falls back to default", func(t *testing.T) {
		t.Parallel()
		c := &clock{now: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
		svc, err := NewJWTServiceWithClock(testSecret, 0, c.Now)
		require.NoError(t, err)

		_, expiresAt, err := svc.GenerateToken(context.Background(), testUser())
		require.NoError(t, err)
		assert.Equal(t, c.now.Add(DefaultTokenLifetime), expiresAt)
	})
}
