package mocks

import (
	"context"
	"database/sql"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
)

// ContentTables is the shared in-memory state behind MockDeckStore and
// MockCardStore. It enforces the same rules as the schema: a card needs an
// existing deck, and deleting a deck deletes its cards.
type ContentTables struct {
	mu    sync.Mutex
	decks map[uuid.UUID]domain.Deck
	cards map[uuid.UUID]domain.Card
}

// NewContentTables returns empty tables.
func NewContentTables() *ContentTables {
	return &ContentTables{
		decks: make(map[uuid.UUID]domain.Deck),
		cards: make(map[uuid.UUID]domain.Card),
	}
}

// CardCount returns the number of stored cards.
func (t *ContentTables) CardCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.cards)
}

func (t *ContentTables) cardsOf(deckID uuid.UUID) []*domain.Card {
	cards := make([]*domain.Card, 0)
	for _, c := range t.cards {
		if c.DeckID == deckID {
			copied := c
			cards = append(cards, &copied)
		}
	}
	slices.SortFunc(cards, func(a, b *domain.Card) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return cards
}

// MockDeckStore implements store.DeckStore for testing
type MockDeckStore struct {
	CreateFn           func(ctx context.Context, deck *domain.Deck) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
	GetByIDForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
	GetWithCardsFn     func(ctx context.Context, id uuid.UUID) (*domain.Deck, []*domain.Card, error)
	ListByUserFn       func(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error)
	UpdateFn           func(ctx context.Context, deck *domain.Deck) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error

	tables *ContentTables
}

// Ensure MockDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*MockDeckStore)(nil)

// NewMockDeckStore creates a deck store over tables.
func NewMockDeckStore(tables *ContentTables) *MockDeckStore {
	return &MockDeckStore{tables: tables}
}

// Create implements the DeckStore interface
func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, deck)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	m.tables.decks[deck.ID] = *deck
	return nil
}

// GetByID implements the DeckStore interface
func (m *MockDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	deck, ok := m.tables.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return &deck, nil
}

// GetByIDForUpdate implements the DeckStore interface
func (m *MockDeckStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

// GetWithCards implements the DeckStore interface
func (m *MockDeckStore) GetWithCards(ctx context.Context, id uuid.UUID) (*domain.Deck, []*domain.Card, error) {
	if m.GetWithCardsFn != nil {
		return m.GetWithCardsFn(ctx, id)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	deck, ok := m.tables.decks[id]
	if !ok {
		return nil, nil, store.ErrDeckNotFound
	}
	return &deck, m.tables.cardsOf(id), nil
}

// ListByUser implements the DeckStore interface
func (m *MockDeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Deck, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	decks := make([]*domain.Deck, 0)
	for _, d := range m.tables.decks {
		if d.UserID == userID {
			copied := d
			decks = append(decks, &copied)
		}
	}
	slices.SortFunc(decks, func(a, b *domain.Deck) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return decks, nil
}

// Update implements the DeckStore interface
func (m *MockDeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, deck)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	existing, ok := m.tables.decks[deck.ID]
	if !ok {
		return store.ErrDeckNotFound
	}
	updated := *deck
	updated.UserID = existing.UserID
	m.tables.decks[deck.ID] = updated
	return nil
}

// Delete implements the DeckStore interface. Cards of the deck are removed too.
func (m *MockDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	if _, ok := m.tables.decks[id]; !ok {
		return store.ErrDeckNotFound
	}
	delete(m.tables.decks, id)
	for cardID, c := range m.tables.cards {
		if c.DeckID == id {
			delete(m.tables.cards, cardID)
		}
	}
	return nil
}

// WithTx implements the DeckStore interface
func (m *MockDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return m
}

// MockCardStore implements store.CardStore for testing
type MockCardStore struct {
	CreateFn           func(ctx context.Context, card *domain.Card) error
	GetByIDFn          func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	GetByIDForUpdateFn func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	ListByDeckFn       func(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)
	UpdateFn           func(ctx context.Context, card *domain.Card) error
	DeleteFn           func(ctx context.Context, id uuid.UUID) error

	tables *ContentTables
}

// Ensure MockCardStore implements store.CardStore interface
var _ store.CardStore = (*MockCardStore)(nil)

// NewMockCardStore creates a card store over tables.
func NewMockCardStore(tables *ContentTables) *MockCardStore {
	return &MockCardStore{tables: tables}
}

// Create implements the CardStore interface
func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	if _, ok := m.tables.decks[card.DeckID]; !ok {
		return store.ErrDeckNotFound
	}
	m.tables.cards[card.ID] = *card
	return nil
}

// GetByID implements the CardStore interface
func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	card, ok := m.tables.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return &card, nil
}

// GetByIDForUpdate implements the CardStore interface
func (m *MockCardStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

// ListByDeck implements the CardStore interface
func (m *MockCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	if m.ListByDeckFn != nil {
		return m.ListByDeckFn(ctx, deckID)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	return m.tables.cardsOf(deckID), nil
}

// Update implements the CardStore interface
func (m *MockCardStore) Update(ctx context.Context, card *domain.Card) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, card)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	if _, ok := m.tables.cards[card.ID]; !ok {
		return store.ErrCardNotFound
	}
	m.tables.cards[card.ID] = *card
	return nil
}

// Delete implements the CardStore interface
func (m *MockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.tables.mu.Lock()
	defer m.tables.mu.Unlock()
	if _, ok := m.tables.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(m.tables.cards, id)
	return nil
}

// WithTx implements the CardStore interface
func (m *MockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}
