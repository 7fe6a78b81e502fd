package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	Init("test-secret")

	token, err := GenerateToken(42, RoleCustomer)
	require.NoError(t, err)

	userID, role, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, RoleCustomer, role)
}

func TestAdminRoleSurvivesRoundTrip(t *testing.T) {
	Init("test-secret")

	token, err := GenerateToken(1, RoleAdmin)
	require.NoError(t, err)

	_, role, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)
}

func TestValidateRejectsGarbage(t *testing.T) {
	Init("test-secret")

	_, _, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	Init("first-secret")
	token, err := GenerateToken(7, RoleCustomer)
	require.NoError(t, err)

	Init("second-secret")
	_, _, err = ValidateToken(token)
	assert.Error(t, err)
}
