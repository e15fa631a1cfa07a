package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/service/auth"
	"github.com/phrazzld/flashdeck/internal/store"
)

// MockPasswordHasher implements auth.PasswordHasher without bcrypt's cost.
// The default digest is "hashed:" + password.
type MockPasswordHasher struct {
	HashFn   func(password string) (string, error)
	VerifyFn func(hashedPassword, password string) bool

	mu          sync.Mutex
	VerifyCalls int
}

// Ensure MockPasswordHasher implements auth.PasswordHasher interface
var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Verify implements the PasswordHasher interface
func (m *MockPasswordHasher) Verify(hashedPassword, password string) bool {
	m.mu.Lock()
	m.VerifyCalls++
	m.mu.Unlock()

	if m.VerifyFn != nil {
		return m.VerifyFn(hashedPassword, password)
	}
	return hashedPassword == "hashed:"+password
}

// MockJWTService implements auth.JWTService for testing.
// By default tokens are "token-<user id>" and validate back to their user.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, user *domain.PublicUser) (string, time.Time, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// ExpiresAt is returned by the default GenerateToken.
	ExpiresAt time.Time
}

// Ensure MockJWTService implements auth.JWTService interface
var _ auth.JWTService = (*MockJWTService)(nil)

const tokenPrefix = "token-"

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(
	ctx context.Context,
	user *domain.PublicUser,
) (string, time.Time, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, user)
	}
	expiresAt := m.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(auth.DefaultTokenLifetime)
	}
	return tokenPrefix + user.ID.String(), expiresAt, nil
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	if len(tokenString) <= len(tokenPrefix) || tokenString[:len(tokenPrefix)] != tokenPrefix {
		return nil, auth.ErrInvalidToken
	}
	id, err := uuid.Parse(tokenString[len(tokenPrefix):])
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{
		UserID:    id,
		Subject:   id.String(),
		ID:        "jti-" + id.String(),
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil
}

// MockTokenDenylist implements store.TokenDenylist in memory.
type MockTokenDenylist struct {
	RevokeFn    func(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevokedFn func(ctx context.Context, tokenID string) (bool, error)

	mu      sync.Mutex
	revoked map[string]time.Time
}

// Ensure MockTokenDenylist implements store.TokenDenylist interface
var _ store.TokenDenylist = (*MockTokenDenylist)(nil)

// NewMockTokenDenylist creates an empty denylist.
func NewMockTokenDenylist() *MockTokenDenylist {
	return &MockTokenDenylist{revoked: make(map[string]time.Time)}
}

// Revoke implements the TokenDenylist interface
func (m *MockTokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, tokenID, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = expiresAt
	return nil
}

// IsRevoked implements the TokenDenylist interface
func (m *MockTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, tokenID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}
