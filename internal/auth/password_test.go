package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndCompareHash(t *testing.T) {
	hash, err := CreateHash("hunter2", Params)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	match, err := ComparePasswordAndHash("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = ComparePasswordAndHash("wrong", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := CreateHash("hunter2", Params)
	require.NoError(t, err)
	h2, err := CreateHash("hunter2", Params)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestCompareRejectsMalformedHash(t *testing.T) {
	_, err := ComparePasswordAndHash("hunter2", "not-an-argon2-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
