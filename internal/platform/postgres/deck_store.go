package postgres

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

const deckColumns = `id, user_id, title, description, created_at, updated_at`

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Create implements store.DeckStore.Create.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		return store.NewStoreError("deck", "create", "invalid deck", errors.Join(store.ErrInvalidEntity, err))
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decks (id, user_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		deck.ID, deck.UserID, deck.Title, nullString(deck.Description), deck.CreatedAt, deck.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("deck owner does not exist",
				slog.String("deck_id", deck.ID.String()),
				slog.String("user_id", deck.UserID.String()))
			return store.ErrUserNotFound
		}
		log.Error("failed to insert deck",
			slog.String("deck_id", deck.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("deck", "create", "insert failed", MapError(err))
	}

	log.Debug("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", deck.UserID.String()))
	return nil
}

// GetByID implements store.DeckStore.GetByID.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+deckColumns+` FROM decks WHERE id = $1`, id)
	return s.getOne(ctx, row, id)
}

// GetByIDForUpdate implements store.DeckStore.GetByIDForUpdate.
func (s *PostgresDeckStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+deckColumns+` FROM decks WHERE id = $1 FOR UPDATE`, id)
	return s.getOne(ctx, row, id)
}

func (s *PostgresDeckStore) getOne(ctx context.Context, row *sql.Row, id uuid.UUID) (*domain.Deck, error) {
	deck, err := scanDeck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query deck",
			slog.String("deck_id", id.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("deck", "get", "query failed", MapError(err))
	}
	return deck, nil
}

// GetWithCards implements store.DeckStore.GetWithCards.
// A single LEFT JOIN reads the deck and its cards from one snapshot; a deck
// without cards yields one row with NULL card columns.
func (s *PostgresDeckStore) GetWithCards(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Deck, []*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.user_id, d.title, d.description, d.created_at, d.updated_at,
		       c.id, c.content, c.created_at, c.updated_at
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		WHERE d.id = $1
		ORDER BY c.created_at ASC, c.id ASC`, id)
	if err != nil {
		log.Error("failed to query deck with cards",
			slog.String("deck_id", id.String()),
			slog.String("error", err.Error()))
		return nil, nil, store.NewStoreError("deck", "get_with_cards", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var deck *domain.Deck
	cards := make([]*domain.Card, 0)

	for rows.Next() {
		var (
			d           domain.Deck
			description sql.NullString
			cardID      uuid.NullUUID
			content     []byte
			cardCreated sql.NullTime
			cardUpdated sql.NullTime
		)
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Title, &description, &d.CreatedAt, &d.UpdatedAt,
			&cardID, &content, &cardCreated, &cardUpdated,
		); err != nil {
			log.Error("failed to scan deck row", slog.String("error", err.Error()))
			return nil, nil, store.NewStoreError("deck", "get_with_cards", "scan failed", MapError(err))
		}

		if deck == nil {
			d.Description = stringPtr(description)
			deck = &d
		}

		if cardID.Valid {
			cards = append(cards, &domain.Card{
				ID:        cardID.UUID,
				DeckID:    deck.ID,
				Content:   content,
				CreatedAt: cardCreated.Time,
				UpdatedAt: cardUpdated.Time,
			})
		}
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating deck rows", slog.String("error", err.Error()))
		return nil, nil, store.NewStoreError("deck", "get_with_cards", "iteration failed", MapError(err))
	}

	if deck == nil {
		return nil, nil, store.ErrDeckNotFound
	}

	return deck, cards, nil
}

// ListByUser implements store.DeckStore.ListByUser.
func (s *PostgresDeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+deckColumns+`
		FROM decks
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC`, userID)
	if err != nil {
		log.Error("failed to list decks",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("deck", "list", "query failed", MapError(err))
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	decks := make([]*domain.Deck, 0)
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck", slog.String("error", err.Error()))
			return nil, store.NewStoreError("deck", "list", "scan failed", MapError(err))
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("deck", "list", "iteration failed", MapError(err))
	}

	log.Debug("listed decks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(decks)))
	return decks, nil
}

// Update implements store.DeckStore.Update.
// user_id is deliberately absent from the SET list.
func (s *PostgresDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		return store.NewStoreError("deck", "update", "invalid deck", errors.Join(store.ErrInvalidEntity, err))
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE decks
		SET title = $2, description = $3, updated_at = $4
		WHERE id = $1`,
		deck.ID, deck.Title, nullString(deck.Description), deck.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update deck",
			slog.String("deck_id", deck.ID.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("deck", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		return err
	}

	log.Debug("deck updated", slog.String("deck_id", deck.ID.String()))
	return nil
}

// Delete implements store.DeckStore.Delete.
func (s *PostgresDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete deck",
			slog.String("deck_id", id.String()),
			slog.String("error", err.Error()))
		return store.NewStoreError("deck", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		return err
	}

	log.Debug("deck deleted", slog.String("deck_id", id.String()))
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var (
		deck        domain.Deck
		description sql.NullString
	)
	if err := row.Scan(
		&deck.ID, &deck.UserID, &deck.Title, &description, &deck.CreatedAt, &deck.UpdatedAt,
	); err != nil {
		return nil, err
	}
	deck.Description = stringPtr(description)
	return &deck, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
