package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/service"
	"github.com/phrazzld/flashdeck/internal/service/auth"
)

// MockAuthService implements service.AuthService for handler tests.
// Methods without a function field return zero values.
type MockAuthService struct {
	RegisterFn     func(ctx context.Context, email, password string) (*service.AuthResult, error)
	LoginFn        func(ctx context.Context, email, password string) (*service.AuthResult, error)
	GetIdentityFn  func(ctx context.Context, principal service.Principal) (*domain.PublicUser, error)
	AuthenticateFn func(ctx context.Context, token string) (*auth.Claims, error)
	LogoutFn       func(ctx context.Context, claims *auth.Claims) error
	Revocation     bool
}

// Ensure MockAuthService implements service.AuthService interface
var _ service.AuthService = (*MockAuthService)(nil)

// Register implements the AuthService interface
func (m *MockAuthService) Register(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, email, password)
	}
	return nil, nil
}

// Login implements the AuthService interface
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return nil, nil
}

// GetIdentity implements the AuthService interface
func (m *MockAuthService) GetIdentity(ctx context.Context, principal service.Principal) (*domain.PublicUser, error) {
	if m.GetIdentityFn != nil {
		return m.GetIdentityFn(ctx, principal)
	}
	return nil, nil
}

// Authenticate implements the AuthService interface
func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, token)
	}
	return nil, &service.Error{Op: "authenticate", Kind: service.ErrUnauthorized, Err: auth.ErrInvalidToken}
}

// Logout implements the AuthService interface
func (m *MockAuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if m.LogoutFn != nil {
		return m.LogoutFn(ctx, claims)
	}
	if !m.Revocation {
		return &service.Error{Op: "logout", Kind: service.ErrRevocationUnavailable}
	}
	return nil
}

// RevocationEnabled implements the AuthService interface
func (m *MockAuthService) RevocationEnabled() bool {
	return m.Revocation
}

// MockDeckService implements service.DeckService for handler tests.
// Methods without a function field return zero values.
type MockDeckService struct {
	CreateDeckFn func(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*domain.Deck, error)
	ListDecksFn  func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error)
	GetDeckFn    func(ctx context.Context, userID, deckID uuid.UUID) (*service.DeckWithCards, error)
	UpdateDeckFn func(ctx context.Context, userID, deckID uuid.UUID, update domain.DeckUpdate) (*domain.Deck, error)
	DeleteDeckFn func(ctx context.Context, userID, deckID uuid.UUID) error
	CreateCardFn func(ctx context.Context, userID, deckID uuid.UUID, content domain.CardContent) (*domain.Card, error)
	ListCardsFn  func(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error)
	UpdateCardFn func(ctx context.Context, userID, cardID uuid.UUID, update domain.CardUpdate) (*domain.Card, error)
	DeleteCardFn func(ctx context.Context, userID, cardID uuid.UUID) error
}

// Ensure MockDeckService implements service.DeckService interface
var _ service.DeckService = (*MockDeckService)(nil)

// CreateDeck implements the DeckService interface
func (m *MockDeckService) CreateDeck(
	ctx context.Context,
	ownerID uuid.UUID,
	title string,
	description *string,
) (*domain.Deck, error) {
	if m.CreateDeckFn != nil {
		return m.CreateDeckFn(ctx, ownerID, title, description)
	}
	return nil, nil
}

// ListDecks implements the DeckService interface
func (m *MockDeckService) ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error) {
	if m.ListDecksFn != nil {
		return m.ListDecksFn(ctx, ownerID)
	}
	return nil, nil
}

// GetDeck implements the DeckService interface
func (m *MockDeckService) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*service.DeckWithCards, error) {
	if m.GetDeckFn != nil {
		return m.GetDeckFn(ctx, userID, deckID)
	}
	return nil, nil
}

// UpdateDeck implements the DeckService interface
func (m *MockDeckService) UpdateDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
	update domain.DeckUpdate,
) (*domain.Deck, error) {
	if m.UpdateDeckFn != nil {
		return m.UpdateDeckFn(ctx, userID, deckID, update)
	}
	return nil, nil
}

// DeleteDeck implements the DeckService interface
func (m *MockDeckService) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	if m.DeleteDeckFn != nil {
		return m.DeleteDeckFn(ctx, userID, deckID)
	}
	return nil
}

// CreateCard implements the DeckService interface
func (m *MockDeckService) CreateCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	if m.CreateCardFn != nil {
		return m.CreateCardFn(ctx, userID, deckID, content)
	}
	return nil, nil
}

// ListCards implements the DeckService interface
func (m *MockDeckService) ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error) {
	if m.ListCardsFn != nil {
		return m.ListCardsFn(ctx, userID, deckID)
	}
	return nil, nil
}

// UpdateCard implements the DeckService interface
func (m *MockDeckService) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	update domain.CardUpdate,
) (*domain.Card, error) {
	if m.UpdateCardFn != nil {
		return m.UpdateCardFn(ctx, userID, cardID, update)
	}
	return nil, nil
}

// DeleteCard implements the DeckService interface
func (m *MockDeckService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if m.DeleteCardFn != nil {
		return m.DeleteCardFn(ctx, userID, cardID)
	}
	return nil
}
