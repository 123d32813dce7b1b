package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")
	adminID := uuid.New()

	token, err := GenerateJWT(adminID, "root", 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, adminID.String(), claims.AdminID)
	assert.Equal(t, "root", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWTRejectsForeignSecret(t *testing.T) {
	SetJWTSecret("one")
	token, err := GenerateJWT(uuid.New(), "root", 1)
	require.NoError(t, err)

	SetJWTSecret("two")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpired(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateJWT(uuid.New(), "root", -1)
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}
