package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = NewValidationError("card ID", "cannot be empty", ErrValidation)

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = NewValidationError("card deck ID", "cannot be empty", ErrValidation)

	// ErrCardContentEmpty is returned when a card's content is empty.
	ErrCardContentEmpty = NewValidationError("content", "cannot be empty", ErrValidation)

	// ErrCardContentInvalid is returned when a card's content is not valid JSON.
	ErrCardContentInvalid = NewValidationError("content", "must be a valid JSON object", ErrValidation)

	// ErrCardFrontEmpty is returned when the front side is blank.
	ErrCardFrontEmpty = NewValidationError("front", "cannot be empty", ErrValidation)

	// ErrCardBackEmpty is returned when the back side is blank.
	ErrCardBackEmpty = NewValidationError("back", "cannot be empty", ErrValidation)
)

// Card is a single study item belonging to exactly one deck.
// The content is stored as JSONB so the card format can grow without
// schema changes.
type Card struct {
	ID        uuid.UUID       `json:"id"`
	DeckID    uuid.UUID       `json:"deck_id"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CardContent is the structure persisted in Card.Content.
type CardContent struct {
	Front string `json:"front"`
	Back  string `json:"back"`
	Hint  string `json:"hint,omitempty"`
}

// CardUpdate carries a partial card update. Nil fields are left unchanged.
// An empty, non-nil Hint removes the hint.
type CardUpdate struct {
	Front *string
	Back  *string
	Hint  *string
}

// Validate checks that both sides are present.
func (c CardContent) Validate() error {
	if strings.TrimSpace(c.Front) == "" {
		return ErrCardFrontEmpty
	}
	if strings.TrimSpace(c.Back) == "" {
		return ErrCardBackEmpty
	}
	return nil
}

// NewCard creates a new Card in deckID with the given content.
// Returns an error if validation fails.
func NewCard(deckID uuid.UUID, content CardContent) (*Card, error) {
	if err := content.Validate(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return nil, errors.Join(ErrCardContentInvalid, err)
	}

	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		Content:   raw,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if len(c.Content) == 0 {
		return ErrCardContentEmpty
	}

	content, err := c.DecodeContent()
	if err != nil {
		return err
	}

	return content.Validate()
}

// DecodeContent parses the stored JSON content.
func (c *Card) DecodeContent() (CardContent, error) {
	var content CardContent
	if err := json.Unmarshal(c.Content, &content); err != nil {
		return CardContent{}, ErrCardContentInvalid
	}
	return content, nil
}

// Apply merges a partial update into the card content and bumps UpdatedAt.
// On validation failure the card is left unmodified.
func (c *Card) Apply(update CardUpdate) error {
	content, err := c.DecodeContent()
	if err != nil {
		return err
	}

	if update.Front != nil {
		content.Front = *update.Front
	}
	if update.Back != nil {
		content.Back = *update.Back
	}
	if update.Hint != nil {
		content.Hint = strings.TrimSpace(*update.Hint)
	}

	if err := content.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return errors.Join(ErrCardContentInvalid, err)
	}

	c.Content = raw
	c.UpdatedAt = time.Now().UTC()
	return nil
}
