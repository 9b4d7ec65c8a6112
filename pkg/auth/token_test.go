package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/campushub/portal-backend/pkg/config"
	"github.com/campushub/portal-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "unit-test-secret",
		Issuer:            "campushub-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:     userID,
		Role:       enums.UserRoleStudent,
		Department: "CSE",
		Email:      "s1@campus.test",
	})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, signed)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, enums.UserRoleStudent, claims.Role)
	assert.Equal(t, "CSE", claims.Department)
	assert.Equal(t, "s1@campus.test", claims.Email)
	assert.NotEmpty(t, claims.ID)

	identity := claims.Identity()
	assert.Equal(t, userID, identity.UserID)
	assert.Equal(t, "CSE", identity.Department)
}

func TestMintRejectsInvalidRole(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID:     uuid.New(),
		Role:       enums.UserRole("admin"),
		Department: "CSE",
	})
	require.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID:     uuid.New(),
		Role:       enums.UserRoleTeacher,
		Department: "EEE",
	})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, signed)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "expired"))
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:     uuid.New(),
		Role:       enums.UserRoleTeacher,
		Department: "EEE",
	})
	require.NoError(t, err)

	other := cfg
	other.Issuer = "someone-else"
	_, err = ParseAccessToken(other, signed)
	require.Error(t, err)
}
