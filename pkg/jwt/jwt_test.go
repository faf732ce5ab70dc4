package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken(secret, "vine", "u-1", "a@vine.io", RoleAdmin, "access", time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(secret, "access", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.True(t, claims.IsAdmin())
}

func TestParseRejectsWrongType(t *testing.T) {
	token, err := GenerateToken(secret, "vine", "u-1", "", RoleUser, "refresh", time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, "access", token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredAndForeignSecret(t *testing.T) {
	expired, err := GenerateToken(secret, "vine", "u-1", "", RoleUser, "access", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, "access", expired)
	assert.Error(t, err)

	token, err := GenerateToken([]byte("other"), "vine", "u-1", "", RoleUser, "access", time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, "access", token)
	assert.Error(t, err)
}
