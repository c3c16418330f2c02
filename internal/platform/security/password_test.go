package security

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_Deterministic(t *testing.T) {
	t.Parallel()

	h := NewHasher()
	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	require.Len(t, salt, saltLen)

	d1 := h.Hash("Secret123!", salt)
	d2 := h.Hash("Secret123!", salt)
	assert.True(t, bytes.Equal(d1, d2))
}

func TestHasher_DistinguishesPasswordAndSalt(t *testing.T) {
	t.Parallel()

	h := NewHasher()
	salt1, err := h.GenerateSalt()
	require.NoError(t, err)
	salt2, err := h.GenerateSalt()
	require.NoError(t, err)
	require.False(t, bytes.Equal(salt1, salt2))

	base := h.Hash("Secret123!", salt1)
	assert.False(t, bytes.Equal(base, h.Hash("Secret123?", salt1)))
	assert.False(t, bytes.Equal(base, h.Hash("Secret123!", salt2)))
}
