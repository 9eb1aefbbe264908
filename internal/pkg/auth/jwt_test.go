// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-terminal/internal/config"
)

func newTestManager(expiry time.Duration) *JWTManager {
	cfg := &config.Config{}
	cfg.App.Name = "pos-terminal"
	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.JWT.SessionExpiry = expiry
	return NewJWTManager(cfg)
}

func TestGenerateAndValidateSessionToken(t *testing.T) {
	manager := newTestManager(time.Hour)

	token, err := manager.GenerateSessionToken("sess-123", "Kasir", "cashier")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateSessionToken(token)
	require.NoError(t, err)

	assert.Equal(t, "sess-123", claims.SessionID)
	assert.Equal(t, "Kasir", claims.Name)
	assert.Equal(t, "cashier", claims.Role)
	assert.Equal(t, "pos-terminal", claims.Issuer)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	manager := newTestManager(-time.Minute)

	token, err := manager.GenerateSessionToken("sess-123", "Kasir", "cashier")
	require.NoError(t, err)

	_, err = manager.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := newTestManager(time.Hour).GenerateSessionToken("sess-123", "Kasir", "cashier")
	require.NoError(t, err)

	other := newTestManager(time.Hour)
	other.config.JWT.Secret = "ffffffffffffffffffffffffffffffff"

	_, err = other.ValidateSessionToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager := newTestManager(time.Hour)

	_, err := manager.ValidateSessionToken("not-a-token")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("abc.def.ghi"))
	assert.Empty(t, ExtractTokenFromHeader("Basic dXNlcjpwYXNz"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}
