package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		digest, err := h.Hash("correct horse")
		require.NoError(t, err)
		assert.True(t, h.Verify(digest, "correct horse"))
		assert.False(t, h.Verify(digest, "correct horse "))
	})

	t.Run("salted digests differ", func(t *testing.T) {
		t.Parallel()
		a, err := h.Hash("same password")
		require.NoError(t, err)
		b, err := h.Hash("same password")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
		assert.True(t, h.Verify(a, "same password"))
		assert.True(t, h.Verify(b, "same password"))
	})

	t.Run("malformed digest is a mismatch", func(t *testing.T) {
		t.Parallel()
		assert.False(t, h.Verify("", "anything"))
		assert.False(t, h.Verify("not-a-bcrypt-digest", "anything"))
	})

	t.Run("digest carries the configured cost", func(t *testing.T) {
		t.Parallel()
		digest, err := h.Hash("pw123456")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(digest))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.MinCost, cost)
	})

	t.Run("over-long password is rejected by bcrypt", func(t *testing.T) {
		t.Parallel()
		_, err := h.Hash(strings.Repeat("x", 73))
		assert.Error(t, err)
	})
}

func TestNewBcryptHasherCostFallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).Cost())
	assert.Equal(t, 12, NewBcryptHasher(12).Cost())
}
