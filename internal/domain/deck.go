package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxDeckTitleLength matches the VARCHAR(100) column in the decks table.
const MaxDeckTitleLength = 100

// Deck validation errors
var (
	ErrEmptyDeckID      = NewValidationError("deck ID", "cannot be empty", ErrValidation)
	ErrEmptyDeckUserID  = NewValidationError("deck user ID", "cannot be empty", ErrValidation)
	ErrEmptyDeckTitle   = NewValidationError("title", "cannot be empty", ErrValidation)
	ErrDeckTitleTooLong = NewValidationError(
		"title",
		"must be at most 100 characters long",
		ErrValidation,
	)
)

// Deck groups cards and belongs to exactly one user.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckUpdate carries a partial deck update. Nil fields are left unchanged.
// An empty, non-nil Description clears the description.
type DeckUpdate struct {
	Title       *string
	Description *string
}

// NewDeck creates a new Deck owned by userID.
// Returns an error if validation fails.
func NewDeck(userID uuid.UUID, title string, description *string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: normalizeOptional(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDeckID
	}

	if d.UserID == uuid.Nil {
		return ErrEmptyDeckUserID
	}

	return validateDeckTitle(d.Title)
}

// Apply applies a partial update. Ownership is never touched.
// On validation failure the deck is left unmodified.
func (d *Deck) Apply(update DeckUpdate) error {
	title := d.Title
	description := d.Description

	if update.Title != nil {
		title = strings.TrimSpace(*update.Title)
		if err := validateDeckTitle(title); err != nil {
			return err
		}
	}

	if update.Description != nil {
		description = normalizeOptional(update.Description)
	}

	d.Title = title
	d.Description = description
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// IsOwnedBy reports whether userID owns the deck.
func (d *Deck) IsOwnedBy(userID uuid.UUID) bool {
	return d.UserID == userID
}

func validateDeckTitle(title string) error {
	if title == "" {
		return ErrEmptyDeckTitle
	}
	if utf8.RuneCountInString(title) > MaxDeckTitleLength {
		return ErrDeckTitleTooLong
	}
	return nil
}

// normalizeOptional maps blank strings to nil so "no value" has one representation.
func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
