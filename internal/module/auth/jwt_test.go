package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *JWTManager {
	return NewJWTManager(&JWTConfig{
		Secret:            "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "roamstay-test",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	manager := newTestManager()
	userID := uuid.New()

	token, expiresAt, err := manager.GenerateAccessToken(userID, "guest@example.com", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "guest@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, "roamstay-test", claims.Issuer)
}

func TestValidateAccessToken_Invalid(t *testing.T) {
	manager := newTestManager()

	t.Run("garbage token", func(t *testing.T) {
		_, err := manager.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager(&JWTConfig{Secret: "other-secret", AccessTokenExpiry: time.Hour})
		token, _, err := other.GenerateAccessToken(uuid.New(), "a@b.com", "customer")
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTManager(&JWTConfig{Secret: "test-secret", AccessTokenExpiry: -time.Minute})
		token, _, err := expired.GenerateAccessToken(uuid.New(), "a@b.com", "customer")
		require.NoError(t, err)

		_, err = manager.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestValidateToken_MiddlewareClaims(t *testing.T) {
	manager := newTestManager()
	userID := uuid.New()

	token, _, err := manager.GenerateAccessToken(userID, "admin@example.com", "admin")
	require.NoError(t, err)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}
