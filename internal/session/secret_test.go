package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSecret(t *testing.T) {
	t.Run("decodes hex", func(t *testing.T) {
		key, generated, err := ResolveSecret("00ff10")
		require.NoError(t, err)
		assert.False(t, generated)
		assert.Equal(t, []byte{0x00, 0xff, 0x10}, key)
	})

	t.Run("falls back to raw bytes", func(t *testing.T) {
		key, generated, err := ResolveSecret("not hex at all")
		require.NoError(t, err)
		assert.False(t, generated)
		assert.Equal(t, []byte("not hex at all"), key)
	})

	t.Run("generates a random key when empty", func(t *testing.T) {
		key1, generated, err := ResolveSecret("")
		require.NoError(t, err)
		assert.True(t, generated)
		assert.Len(t, key1, SecretLength)

		key2, _, err := ResolveSecret("")
		require.NoError(t, err)
		assert.NotEqual(t, key1, key2)
	})
}
