package service

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_GenerateToken(t *testing.T) {
	service := NewTokenService()

	t.Run("Success_GenerateToken", func(t *testing.T) {
		plainToken, tokenHash, err := service.GenerateToken()
		require.NoError(t, err)

		decoded, err := base64.RawURLEncoding.DecodeString(plainToken)
		require.NoError(t, err)
		assert.Len(t, decoded, 32)

		expected := sha256.Sum256([]byte(plainToken))
		assert.Equal(t, hex.EncodeToString(expected[:]), tokenHash)
	})

	t.Run("Success_TokenIsQueryAndBasicSafe", func(t *testing.T) {
		plainToken, _, err := service.GenerateToken()
		require.NoError(t, err)

		assert.False(t, strings.ContainsAny(plainToken, ":.=+/ "))
	})

	t.Run("Success_GenerateUniqueTokens", func(t *testing.T) {
		plain1, hash1, err := service.GenerateToken()
		require.NoError(t, err)
		plain2, hash2, err := service.GenerateToken()
		require.NoError(t, err)

		assert.NotEqual(t, plain1, plain2)
		assert.NotEqual(t, hash1, hash2)
	})
}

func TestTokenService_HashToken(t *testing.T) {
	service := NewTokenService()

	tests := []struct {
		name  string
		token string
	}{
		{"regular token", "test-token-abc123"},
		{"empty token", ""},
		{"jwt shaped", "a.b.c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.HashToken(tt.token)
			expected := sha256.Sum256([]byte(tt.token))

			assert.Len(t, got, 64)
			assert.Equal(t, hex.EncodeToString(expected[:]), got)
			assert.Equal(t, got, service.HashToken(tt.token))
		})
	}

	assert.NotEqual(t, service.HashToken("token-one"), service.HashToken("token-two"))
}
