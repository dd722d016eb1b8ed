package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "mentorlink-test", 1)

	token, err := tm.GenerateToken("user-1", "alice@example.com", "Alice", "mentor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.Equal(t, "mentor", claims.Role)
	assert.Equal(t, "mentorlink-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID, "jti must be set for revocation")
}

func TestGenerateToken_UniqueTokenIDs(t *testing.T) {
	tm := NewTokenManager("test-secret", "mentorlink-test", 1)

	first, err := tm.GenerateToken("user-1", "alice@example.com", "Alice", "mentor")
	require.NoError(t, err)
	second, err := tm.GenerateToken("user-1", "alice@example.com", "Alice", "mentor")
	require.NoError(t, err)

	firstClaims, err := tm.ValidateToken(first)
	require.NoError(t, err)
	secondClaims, err := tm.ValidateToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", "mentorlink-test", 1)
	other := NewTokenManager("other-secret", "mentorlink-test", 1)

	token, err := tm.GenerateToken("user-1", "alice@example.com", "Alice", "mentor")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Malformed(t *testing.T) {
	tm := NewTokenManager("test-secret", "mentorlink-test", 1)

	_, err := tm.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", "mentorlink-test", 0)

	token, err := tm.GenerateToken("user-1", "alice@example.com", "Alice", "mentor")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
