package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User      *domain.PublicUser `json:"user"`
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateDeckRequest defines the payload for creating a deck.
type CreateDeckRequest struct {
	Title       string  `json:"title"       validate:"required,max=100"`
	Description *string `json:"description"`
}

// UpdateDeckRequest defines a partial deck update. Omitted fields are unchanged.
type UpdateDeckRequest struct {
	Title       *string `json:"title"       validate:"omitnil,max=100"`
	Description *string `json:"description"`
}

func (r UpdateDeckRequest) empty() bool {
	return r.Title == nil && r.Description == nil
}

func (r UpdateDeckRequest) toDomain() domain.DeckUpdate {
	return domain.DeckUpdate{Title: r.Title, Description: r.Description}
}

// CreateCardRequest defines the payload for adding a card to a deck.
type CreateCardRequest struct {
	Front string  `json:"front" validate:"required"`
	Back  string  `json:"back"  validate:"required"`
	Hint  *string `json:"hint"`
}

func (r CreateCardRequest) toDomain() domain.CardContent {
	content := domain.CardContent{Front: r.Front, Back: r.Back}
	if r.Hint != nil {
		content.Hint = *r.Hint
	}
	return content
}

// UpdateCardRequest defines a partial card update. Omitted fields are unchanged.
type UpdateCardRequest struct {
	Front *string `json:"front"`
	Back  *string `json:"back"`
	Hint  *string `json:"hint"`
}

func (r UpdateCardRequest) empty() bool {
	return r.Front == nil && r.Back == nil && r.Hint == nil
}

func (r UpdateCardRequest) toDomain() domain.CardUpdate {
	return domain.CardUpdate{Front: r.Front, Back: r.Back, Hint: r.Hint}
}
