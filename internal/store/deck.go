package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
)

// DeckStore defines the interface for deck data persistence.
type DeckStore interface {
	// Create saves a new deck.
	// Returns ErrUserNotFound if the owning user does not exist (foreign key).
	Create(ctx context.Context, deck *domain.Deck) error

	// GetByID retrieves a deck without its cards.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// GetByIDForUpdate is GetByID with a row lock held until the
	// surrounding transaction ends. Only meaningful on a WithTx store.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Deck, error)

	// GetWithCards retrieves a deck and all of its cards in a single
	// statement, so the result reflects one consistent snapshot.
	// Cards are ordered by creation time. Returns ErrDeckNotFound if the
	// deck does not exist.
	GetWithCards(ctx context.Context, id uuid.UUID) (*domain.Deck, []*domain.Card, error)

	// ListByUser returns all decks owned by userID, newest first.
	// Returns an empty slice when the user has no decks.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)

	// Update persists title, description and updated_at. Ownership is never changed.
	// Returns ErrDeckNotFound if the deck does not exist.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes a deck. Its cards are removed atomically by the
	// ON DELETE CASCADE foreign key. Returns ErrDeckNotFound if no row matched.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a DeckStore bound to the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
