package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesKindAndCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("insert: %w", store.ErrEmailExists)
	err := newError("register", ErrConflict, cause)

	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NotErrorIs(t, err, ErrInternal)
	assert.Equal(t, "register: conflict: insert: entity already exists: email", err.Error())
}

func TestErrorWithoutCause(t *testing.T) {
	t.Parallel()

	err := newError("get deck", ErrNotOwned, nil)

	assert.ErrorIs(t, err, ErrNotOwned)
	assert.Equal(t, "get deck: resource is owned by another user", err.Error())
}

func TestWrapErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"domain validation", domain.ErrEmptyDeckTitle, ErrValidation},
		{"invalid entity", store.ErrInvalidEntity, ErrValidation},
		{"duplicate", store.ErrEmailExists, ErrConflict},
		{"deck not found", store.ErrDeckNotFound, ErrNotFound},
		{"wrapped card not found", store.NewStoreError("card", "get", "missing", store.ErrCardNotFound), ErrNotFound},
		{"transaction failure", store.ErrTransactionFailed, ErrInternal},
		{"unknown", errors.New("boom"), ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := wrapError("op", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)
			assert.ErrorIs(t, wrapped, tt.err)
			assert.Equal(t, tt.kind, KindOf(wrapped))
		})
	}
}

func TestWrapErrorKeepsServiceErrors(t *testing.T) {
	t.Parallel()

	original := newError("update deck", ErrNotOwned, nil)
	wrapped := wrapError("outer", fmt.Errorf("tx: %w", original))

	assert.Equal(t, ErrNotOwned, KindOf(wrapped))
	assert.NotErrorIs(t, wrapped, ErrInternal)
}
