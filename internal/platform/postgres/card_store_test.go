package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/postgres"
	"github.com/phrazzld/flashdeck/internal/platform/postgres/migrations"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cardCols = []string{"id", "deck_id", "content", "created_at", "updated_at"}

func newCard(t *testing.T) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(uuid.New(), domain.CardContent{Front: "hola", Back: "hello"})
	require.NoError(t, err)
	return card
}

func TestPostgresCardStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("inserts", func(t *testing.T) {
		t.Parallel()
		db, mock, log := newMock(t)
		s := postgres.NewPostgresCardStore(db, log)
		card := newCard(t)

		mock.ExpectExec("INSERT INTO cards").
			WithArgs(card.ID, card.DeckID, []byte(card.Content), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Create(context.Background(), card))
	})

	t.Run("missing deck", func(t *testing.T) {
		t.Parallel()
		db, mock, log := newMock(t)
		s := postgres.NewPostgresCardStore(db, log)

		mock.ExpectExec("INSERT INTO cards").WillReturnError(newPgError(pgerrcode.ForeignKeyViolation))

		err := s.Create(context.Background(), newCard(t))
		assert.ErrorIs(t, err, store.ErrDeckNotFound)
	})

	t.Run("invalid content", func(t *testing.T) {
		t.Parallel()
		db, _, log := newMock(t)
		s := postgres.NewPostgresCardStore(db, log)

		card := newCard(t)
		card.Content = []byte(`{"front":"","back":"x"}`)

		err := s.Create(context.Background(), card)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresCardStore_Get(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	id, deckID := uuid.New(), uuid.New()

	t.Run("by id", func(t *testing.T) {
		t.Parallel()
		db, mock, log := newMock(t)
		s := postgres.NewPostgresCardStore(db, log)

		mock.ExpectQuery("SELECT (.+) FROM cards WHERE id = \\$1$").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(cardCols).
				AddRow(id.String(), deckID.String(), []byte(`{"front":"a","back":"b"}`), now, now))

		card, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, deckID, card.DeckID)
		content, err := card.DecodeContent()
		require.NoError(t, err)
		assert.Equal(t, "a", content.Front)
	})

	t.Run("for update takes a row lock", func(t *testing.T) {
		t.Parallel()
		db, mock, log := newMock(t)
		s := postgres.NewPostgresCardStore(db, log)

		mock.ExpectQuery("FROM cards WHERE id = \\$1 FOR UPDATE").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(cardCols).
				AddRow(id.String(), deckID.String(), []byte(`{"front":"a","back":"b"}`), now, now))

		_, err := s.GetByIDForUpdate(context.Background(), id)
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock, log := newMock(t)
		s := postgres.NewPostgresCardStore(db, log)

		mock.ExpectQuery("FROM cards").WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrCardNotFound)
	})

	t.Run("list by deck", func(t *testing.T) {
		t.Parallel()
		db, mock, log := newMock(t)
		s := postgres.NewPostgresCardStore(db, log)

		mock.ExpectQuery("WHERE deck_id = \\$1\\s+ORDER BY created_at ASC").
			WithArgs(deckID).
			WillReturnRows(sqlmock.NewRows(cardCols).
				AddRow(uuid.New().String(), deckID.String(), []byte(`{"front":"a","back":"b"}`), now, now).
				AddRow(uuid.New().String(), deckID.String(), []byte(`{"front":"c","back":"d"}`), now, now))

		cards, err := s.ListByDeck(context.Background(), deckID)
		require.NoError(t, err)
		assert.Len(t, cards, 2)
	})
}

func TestPostgresCardStore_UpdateDelete(t *testing.T) {
	t.Parallel()

	t.Run("update", func(t *testing.T) {
		t.Parallel()
		db, mock, log := newMock(t)
		s := postgres.NewPostgresCardStore(db, log)
		card := newCard(t)

		mock.ExpectExec("UPDATE cards\\s+SET content = \\$2, updated_at = \\$3").
			WithArgs(card.ID, []byte(card.Content), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Update(context.Background(), card))
	})

	t.Run("update missing card", func(t *testing.T) {
		t.Parallel()
		db, mock, log := newMock(t)
		s := postgres.NewPostgresCardStore(db, log)

		mock.ExpectExec("UPDATE cards").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Update(context.Background(), newCard(t)), store.ErrCardNotFound)
	})

	t.Run("delete missing card", func(t *testing.T) {
		t.Parallel()
		db, mock, log := newMock(t)
		s := postgres.NewPostgresCardStore(db, log)

		mock.ExpectExec("DELETE FROM cards WHERE id = \\$1").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(context.Background(), uuid.New()), store.ErrCardNotFound)
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"20250101000001_create_users.sql",
		"20250101000002_create_decks.sql",
		"20250101000003_create_cards.sql",
	} {
		raw, err := migrations.FS.ReadFile(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(raw), "-- +goose Up")
		assert.Contains(t, string(raw), "-- +goose Down")
	}

	decks, err := migrations.FS.ReadFile("20250101000002_create_decks.sql")
	require.NoError(t, err)
	assert.Contains(t, string(decks), "ON DELETE CASCADE")
}

func TestMigrateUnknownCommand(t *testing.T) {
	t.Parallel()
	db, _, log := newMock(t)

	err := postgres.Migrate(context.Background(), db, "sideways", log)
	assert.Error(t, err)
}
