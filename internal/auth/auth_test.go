package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidescope/slidescope/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	a, err := NewAuth("test-secret", time.Hour)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: "reviewer@example.com", Role: models.RoleUser}
	token, err := a.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestExpiredTokenRejected(t *testing.T) {
	a, err := NewAuth("test-secret", -time.Minute)
	require.NoError(t, err)

	token, err := a.GenerateToken(&models.User{ID: uuid.New(), Role: models.RoleUser})
	require.NoError(t, err)

	_, err = a.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	a1, err := NewAuth("secret-one", time.Hour)
	require.NoError(t, err)
	a2, err := NewAuth("secret-two", time.Hour)
	require.NoError(t, err)

	token, err := a1.GenerateToken(&models.User{ID: uuid.New(), Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = a2.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewAuthRequiresSecret(t *testing.T) {
	_, err := NewAuth("", time.Hour)
	assert.Error(t, err)
}

func TestCheckPermission(t *testing.T) {
	a, err := NewAuth("s", time.Hour)
	require.NoError(t, err)

	assert.True(t, a.CheckPermission(models.RoleAdmin, models.RoleAdmin))
	assert.True(t, a.CheckPermission(models.RoleAdmin, models.RoleUser))
	assert.True(t, a.CheckPermission(models.RoleUser, models.RoleUser))
	assert.False(t, a.CheckPermission(models.RoleUser, models.RoleAdmin))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2hunter2"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}
