package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	s := New("secret", time.Hour)

	token, err := s.Sign("user-1")
	require.NoError(t, err)

	claims, err := s.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	token, err := New("a", time.Hour).Sign("user-1")
	require.NoError(t, err)

	_, err = New("b", time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	s := &Signer{secret: []byte("secret"), ttl: -time.Minute}
	token, err := s.Sign("user-1")
	require.NoError(t, err)

	_, err = s.Parse(token)
	assert.Error(t, err)
}

func TestDevSecretFallback(t *testing.T) {
	assert.True(t, New("", 0).UsesDevSecret())
	assert.False(t, New("configured", 0).UsesDevSecret())
}
