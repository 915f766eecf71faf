package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute)

	token, err := manager.GenerateAccessToken("user-1", "a@b.com", false)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.False(t, claims.SystemAdmin)
}

func TestJWTCarriesAdminClaim(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute)

	token, err := manager.GenerateAccessToken("admin-1", "root@b.com", true)
	require.NoError(t, err)

	claims, err := manager.ParseAndValidate(token)
	require.NoError(t, err)
	assert.True(t, claims.SystemAdmin)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute)
	other := NewJWTManager("different-secret", time.Minute)

	token, err := manager.GenerateAccessToken("user-1", "a@b.com", false)
	require.NoError(t, err)

	_, err = other.ParseAndValidate(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateAccessToken("user-1", "a@b.com", false)
	require.NoError(t, err)

	_, err = manager.ParseAndValidate(token)
	assert.Error(t, err)
}
