package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewise/triage-api/internal/config"
	"github.com/carewise/triage-api/internal/model"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "access-secret",
		RefreshSecret:      "refresh-secret",
		ExpiryHours:        1,
		RefreshExpiryHours: 24,
	}
}

func testUser() *model.User {
	return &model.User{
		Base:  model.Base{ID: uuid.New()},
		Email: "doc@example.com",
		Role:  model.UserRoleDoctor,
	}
}

func TestJWT_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	user := testUser()

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "doc@example.com", claims.Email)
	assert.Equal(t, model.UserRoleDoctor, claims.Role)
}

func TestJWT_RefreshTokenUsesSeparateSecret(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	user := testUser()

	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	// A refresh token must not pass as an access token or vice versa.
	_, err = svc.ValidateToken(refresh)
	assert.Error(t, err)

	access, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)

	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestJWT_RejectsTamperedToken(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestJWT_RejectsTokenFromOtherSecret(t *testing.T) {
	svc := NewJWTService(testJWTConfig())

	otherCfg := testJWTConfig()
	otherCfg.Secret = "different-secret"
	other := NewJWTService(otherCfg)

	token, err := other.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
