package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brims-http-service/config"
)

func jwtTestConfig(secret string) *config.Config {
	return &config.Config{JWTSecretKey: secret}
}

func TestGenerateAndExtractClaims(t *testing.T) {
	svc := NewJWTService(jwtTestConfig("test-secret"))

	token, err := svc.GenerateToken(42, RoleStaff, "jdelacruz")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, RoleStaff, claims.Role)
	assert.Equal(t, "jdelacruz", claims.Username)
	assert.Equal(t, "brims-http-service", claims.Issuer)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTService(jwtTestConfig("secret-a"))
	verifier := NewJWTService(jwtTestConfig("secret-b"))

	token, err := issuer.GenerateToken(1, RoleAdmin, "admin")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)

	_, err = verifier.ExtractClaims(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService(jwtTestConfig("test-secret"))

	for _, token := range []string{"", "not-a-token", "aaaa.bbbb.cccc"} {
		_, err := svc.ValidateToken(token)
		assert.Error(t, err, "token %q", token)
	}
}
