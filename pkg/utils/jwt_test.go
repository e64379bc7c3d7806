package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "kidz-story-api")
	pair, err := m.GenerateTokenPair(TokenSubject{UserID: "u1", Email: "admin@example.com"}, time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "access", claims.Type)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.Type)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", "kidz-story-api")
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.GenerateToken(TokenSubject{UserID: "u1"}, "access", time.Minute)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", "kidz-story-api").ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_WrongSecretOrIssuer(t *testing.T) {
	token, err := NewJWTManager("secret", "kidz-story-api").GenerateToken(TokenSubject{UserID: "u1"}, "access", time.Minute)
	require.NoError(t, err)

	_, err = NewJWTManager("other", "kidz-story-api").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewJWTManager("secret", "someone-else").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
