package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

// DeckWithCards is a deck together with all of its cards, read from one snapshot.
type DeckWithCards struct {
	*domain.Deck
	Cards []*domain.Card `json:"cards"`
}

// DeckService provides deck and card operations. Every operation takes the
// authenticated user's ID; resources owned by another user yield ErrNotOwned.
type DeckService interface {
	// CreateDeck creates a deck owned by ownerID.
	CreateDeck(ctx context.Context, ownerID uuid.UUID, title string, description *string) (*domain.Deck, error)

	// ListDecks returns the decks owned by ownerID, newest first.
	ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error)

	// GetDeck returns a deck with its cards.
	GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*DeckWithCards, error)

	// UpdateDeck applies a partial update. Ownership never changes.
	UpdateDeck(ctx context.Context, userID, deckID uuid.UUID, update domain.DeckUpdate) (*domain.Deck, error)

	// DeleteDeck deletes a deck and its cards. Deleting a missing deck succeeds.
	DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error

	// CreateCard adds a card to a deck owned by userID.
	CreateCard(ctx context.Context, userID, deckID uuid.UUID, content domain.CardContent) (*domain.Card, error)

	// ListCards returns the cards of a deck, oldest first.
	ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error)

	// UpdateCard merges a partial update into a card's content.
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, update domain.CardUpdate) (*domain.Card, error)

	// DeleteCard deletes a card. Deleting a missing card succeeds.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}

// deckServiceImpl implements the DeckService interface
type deckServiceImpl struct {
	db        store.TxBeginner
	deckStore store.DeckStore
	cardStore store.CardStore
	logger    *slog.Logger
}

// NewDeckService creates a new DeckService
// It returns an error if any of the required dependencies are nil.
func NewDeckService(
	db store.TxBeginner,
	deckStore store.DeckStore,
	cardStore store.CardStore,
	logger *slog.Logger,
) (DeckService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if deckStore == nil {
		return nil, domain.NewValidationError("deckStore", "cannot be nil", domain.ErrValidation)
	}
	if cardStore == nil {
		return nil, domain.NewValidationError("cardStore", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		db:        db,
		deckStore: deckStore,
		cardStore: cardStore,
		logger:    logger.With(slog.String("component", "deck_service")),
	}, nil
}

// CreateDeck implements DeckService.CreateDeck
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	ownerID uuid.UUID,
	title string,
	description *string,
) (*domain.Deck, error) {
	const op = "create deck"
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(ownerID, title, description)
	if err != nil {
		return nil, newError(op, ErrValidation, err)
	}

	if err := s.deckStore.Create(ctx, deck); err != nil {
		// The owner comes from a verified token; a missing owner means the
		// account was deleted after the token was issued.
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, newError(op, ErrUnauthorized, err)
		}
		log.Error("failed to create deck",
			slog.String("user_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, wrapError(op, err)
	}

	log.Debug("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", ownerID.String()))
	return deck, nil
}

// ListDecks implements DeckService.ListDecks
func (s *deckServiceImpl) ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error) {
	decks, err := s.deckStore.ListByUser(ctx, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list decks",
			slog.String("user_id", ownerID.String()),
			slog.String("error", err.Error()))
		return nil, newError("list decks", ErrInternal, err)
	}
	return decks, nil
}

// GetDeck implements DeckService.GetDeck
func (s *deckServiceImpl) GetDeck(ctx context.Context, userID, deckID uuid.UUID) (*DeckWithCards, error) {
	const op = "get deck"

	deck, cards, err := s.deckStore.GetWithCards(ctx, deckID)
	if err != nil {
		return nil, s.storeFailure(ctx, op, err)
	}
	if !deck.IsOwnedBy(userID) {
		return nil, newError(op, ErrNotOwned, nil)
	}

	return &DeckWithCards{Deck: deck, Cards: cards}, nil
}

// UpdateDeck implements DeckService.UpdateDeck
func (s *deckServiceImpl) UpdateDeck(
	ctx context.Context,
	userID, deckID uuid.UUID,
	update domain.DeckUpdate,
) (*domain.Deck, error) {
	const op = "update deck"

	var updated *domain.Deck
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		decks := s.deckStore.WithTx(tx)

		deck, err := decks.GetByIDForUpdate(ctx, deckID)
		if err != nil {
			return err
		}
		if !deck.IsOwnedBy(userID) {
			return newError(op, ErrNotOwned, nil)
		}
		if err := deck.Apply(update); err != nil {
			return err
		}
		if err := decks.Update(ctx, deck); err != nil {
			return err
		}

		updated = deck
		return nil
	})
	if err != nil {
		return nil, s.storeFailure(ctx, op, err)
	}

	return updated, nil
}

// DeleteDeck implements DeckService.DeleteDeck
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, userID, deckID uuid.UUID) error {
	const op = "delete deck"
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("deck already absent", slog.String("deck_id", deckID.String()))
			return nil
		}
		return s.storeFailure(ctx, op, err)
	}
	if !deck.IsOwnedBy(userID) {
		return newError(op, ErrNotOwned, nil)
	}

	// A concurrent delete between the read and this statement is still success.
	if err := s.deckStore.Delete(ctx, deckID); err != nil && !store.IsNotFoundError(err) {
		return s.storeFailure(ctx, op, err)
	}

	log.Info("deck deleted",
		slog.String("deck_id", deckID.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// CreateCard implements DeckService.CreateCard
func (s *deckServiceImpl) CreateCard(
	ctx context.Context,
	userID, deckID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	const op = "create card"

	card, err := domain.NewCard(deckID, content)
	if err != nil {
		return nil, newError(op, ErrValidation, err)
	}

	if _, err := s.ownedDeck(ctx, op, userID, deckID); err != nil {
		return nil, err
	}

	// The deck may vanish between the ownership check and the insert; the
	// foreign key turns that into ErrDeckNotFound and no row is written.
	if err := s.cardStore.Create(ctx, card); err != nil {
		return nil, s.storeFailure(ctx, op, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()))
	return card, nil
}

// ListCards implements DeckService.ListCards
func (s *deckServiceImpl) ListCards(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.Card, error) {
	const op = "list cards"

	if _, err := s.ownedDeck(ctx, op, userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, s.storeFailure(ctx, op, err)
	}
	return cards, nil
}

// UpdateCard implements DeckService.UpdateCard
func (s *deckServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	update domain.CardUpdate,
) (*domain.Card, error) {
	const op = "update card"

	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)

		card, err := cards.GetByIDForUpdate(ctx, cardID)
		if err != nil {
			return err
		}

		deck, err := s.deckStore.WithTx(tx).GetByID(ctx, card.DeckID)
		if err != nil {
			return err
		}
		if !deck.IsOwnedBy(userID) {
			return newError(op, ErrNotOwned, nil)
		}

		if err := card.Apply(update); err != nil {
			return err
		}
		if err := cards.Update(ctx, card); err != nil {
			return err
		}

		updated = card
		return nil
	})
	if err != nil {
		return nil, s.storeFailure(ctx, op, err)
	}

	return updated, nil
}

// DeleteCard implements DeckService.DeleteCard
func (s *deckServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	const op = "delete card"
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("card already absent", slog.String("card_id", cardID.String()))
			return nil
		}
		return s.storeFailure(ctx, op, err)
	}

	deck, err := s.deckStore.GetByID(ctx, card.DeckID)
	if err != nil {
		// Deck gone means the card went with it.
		if store.IsNotFoundError(err) {
			return nil
		}
		return s.storeFailure(ctx, op, err)
	}
	if !deck.IsOwnedBy(userID) {
		return newError(op, ErrNotOwned, nil)
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil && !store.IsNotFoundError(err) {
		return s.storeFailure(ctx, op, err)
	}

	log.Debug("card deleted", slog.String("card_id", cardID.String()))
	return nil
}

// ownedDeck loads a deck and checks userID owns it.
func (s *deckServiceImpl) ownedDeck(ctx context.Context, op string, userID, deckID uuid.UUID) (*domain.Deck, error) {
	deck, err := s.deckStore.GetByID(ctx, deckID)
	if err != nil {
		return nil, s.storeFailure(ctx, op, err)
	}
	if !deck.IsOwnedBy(userID) {
		return nil, newError(op, ErrNotOwned, nil)
	}
	return deck, nil
}

// storeFailure wraps err and logs it when it is unexpected.
func (s *deckServiceImpl) storeFailure(ctx context.Context, op string, err error) error {
	wrapped := wrapError(op, err)
	if errors.Is(wrapped, ErrInternal) {
		logger.FromContextOrDefault(ctx, s.logger).Error("deck service operation failed",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}
	return wrapped
}
