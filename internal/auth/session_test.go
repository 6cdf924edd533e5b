package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	Init()
	userID := uuid.New().String()

	token, err := CreateJWT(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID, sub)
}

func TestJWTRejectsTampering(t *testing.T) {
	Init()
	token, err := CreateJWT(uuid.New().String())
	require.NoError(t, err)

	_, err = AuthenticateJWT(token + "x")
	assert.Error(t, err)

	_, err = AuthenticateJWT("not.a.token")
	assert.Error(t, err)
}
