package jwthelper

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = []byte("test-signing-key")

func TestRoundTrip(t *testing.T) {
	token, err := GenerateToken(key, Claims{AccountID: 7, Email: "ann@example.com", Name: "Ann", Admin: true}, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(key, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.AccountID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.True(t, claims.Admin)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseRejects(t *testing.T) {
	expired, err := GenerateToken(key, Claims{AccountID: 7}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(key, expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := GenerateToken([]byte("other"), Claims{AccountID: 7}, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(key, other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	anonymous, err := GenerateToken(key, Claims{}, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(key, anonymous)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{AccountID: 7}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(key, none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(key, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
