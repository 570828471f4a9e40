package auth

import (
	"testing"

	"asset-backend/internal/apperrors"
	"asset-backend/internal/config"
	"asset-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-do-not-use"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "asset-backend-test"
	return cfg
}

func TestTokenRoundtrip(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	user := &models.User{ID: "u-1", Email: "jo@example.com", Role: models.RoleManager}

	token, err := mgr.GenerateToken(user)
	require.NoError(t, err)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "jo@example.com", claims.Email)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.Equal(t, "asset-backend-test", claims.Issuer)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	user := &models.User{ID: "u-1", Email: "jo@example.com", Role: models.RoleEmployee}

	token, err := mgr.GenerateToken(user)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "a-different-secret"
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22!")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22!", hash)
	assert.True(t, VerifyPassword(hash, "hunter22!"))
	assert.False(t, VerifyPassword(hash, "hunter23!"))
}

func TestAuthorize(t *testing.T) {
	admin := Actor{ID: "a", Role: models.RoleAdmin}
	manager := Actor{ID: "m", Role: models.RoleManager}
	employee := Actor{ID: "e", Role: models.RoleEmployee}

	assert.NoError(t, Authorize(admin, CapDecideWorkflow))
	assert.NoError(t, Authorize(manager, CapDecideWorkflow))
	assert.Error(t, Authorize(employee, CapDecideWorkflow))

	assert.NoError(t, Authorize(admin, CapManageUsers))
	assert.Error(t, Authorize(manager, CapManageUsers))
	assert.Error(t, Authorize(employee, CapManageUsers))

	err := Authorize(employee, CapRequestDisposal)
	var aerr *apperrors.AuthorizationError
	assert.ErrorAs(t, err, &aerr)
}
