package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptPasswordService(t *testing.T) {
	service := NewBcryptPasswordService(bcrypt.MinCost)

	t.Run("HashPassword", func(t *testing.T) {
		hash, err := service.HashPassword("test-password-123")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "test-password-123", hash)
	})

	t.Run("HashIsSalted", func(t *testing.T) {
		a, err := service.HashPassword("same")
		require.NoError(t, err)
		b, err := service.HashPassword("same")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("HashEmptyPassword", func(t *testing.T) {
		_, err := service.HashPassword("")
		assert.Error(t, err)
	})

	t.Run("VerifyPassword", func(t *testing.T) {
		hash, err := service.HashPassword("test-password-123")
		require.NoError(t, err)

		ok, err := service.VerifyPassword("test-password-123", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("VerifyWrongPassword", func(t *testing.T) {
		hash, err := service.HashPassword("test-password-123")
		require.NoError(t, err)

		ok, err := service.VerifyPassword("wrong-password-456", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("MalformedHashFailsWithoutPanic", func(t *testing.T) {
		ok, err := service.VerifyPassword("anything", "not-a-bcrypt-hash")
		assert.False(t, ok)
		assert.Error(t, err)
	})

	t.Run("InvalidCostFallsBackToDefault", func(t *testing.T) {
		assert.Equal(t, bcrypt.DefaultCost, NewBcryptPasswordService(99).cost)
	})
}
