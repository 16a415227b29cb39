package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pepagora/internal/app/catalog/entity"
)

func newTestJWTManager() *JWTManager {
	return NewJWTManager("test-secret-key", 15*time.Minute, 7*24*time.Hour)
}

func TestJWTManager_GenerateAndValidateAccessToken(t *testing.T) {
	// Arrange
	manager := newTestJWTManager()

	// Act
	token, err := manager.GenerateAccessToken("user-123", "user@example.com", entity.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestJWTManager_ValidateAccessToken_WrongSecret(t *testing.T) {
	// Arrange
	manager := newTestJWTManager()
	other := NewJWTManager("another-secret", 15*time.Minute, 7*24*time.Hour)

	token, err := manager.GenerateAccessToken("user-123", "user@example.com", entity.RoleAdmin)
	require.NoError(t, err)

	// Act
	claims, err := other.ValidateAccessToken(token)

	// Assert
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_ValidateAccessToken_Expired(t *testing.T) {
	// Arrange
	manager := NewJWTManager("test-secret-key", -time.Minute, 7*24*time.Hour)

	token, err := manager.GenerateAccessToken("user-123", "user@example.com", entity.RoleAdmin)
	require.NoError(t, err)

	// Act
	claims, err := manager.ValidateAccessToken(token)

	// Assert
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_ValidateAccessToken_Garbage(t *testing.T) {
	manager := newTestJWTManager()

	claims, err := manager.ValidateAccessToken("not-a-jwt")

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_GenerateAndValidateRefreshToken(t *testing.T) {
	// Arrange
	manager := newTestJWTManager()

	// Act
	token, err := manager.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	userID, err := manager.ValidateRefreshToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTManager_ValidateRefreshToken_RejectsAccessToken(t *testing.T) {
	// Access токен нельзя предъявить как refresh: нет маркера token_type
	manager := newTestJWTManager()

	accessToken, err := manager.GenerateAccessToken("user-123", "user@example.com", entity.RoleAdmin)
	require.NoError(t, err)

	userID, err := manager.ValidateRefreshToken(accessToken)

	assert.Empty(t, userID)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_ValidateRefreshToken_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret-key", 15*time.Minute, -time.Minute)

	token, err := manager.GenerateRefreshToken("user-123")
	require.NoError(t, err)

	userID, err := manager.ValidateRefreshToken(token)

	assert.Empty(t, userID)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestHashToken(t *testing.T) {
	hash1 := HashToken("token-a")
	hash2 := HashToken("token-a")
	hash3 := HashToken("token-b")

	assert.Equal(t, hash1, hash2)
	assert.NotEqual(t, hash1, hash3)
	assert.Len(t, hash1, 64) // hex SHA-256
}
