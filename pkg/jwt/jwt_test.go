package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", "study-planner", time.Hour)

	token, err := m.GenerateToken("user-1", "ada@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "study-planner", claims.Issuer)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := NewManager("secret", "", time.Hour).GenerateToken("user-1", "ada@example.com")
	require.NoError(t, err)

	_, err = NewManager("other", "", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	m := NewManager("secret", "", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.GenerateToken("user-1", "ada@example.com")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongIssuer(t *testing.T) {
	token, err := NewManager("secret", "someone-else", time.Hour).GenerateToken("user-1", "ada@example.com")
	require.NoError(t, err)

	_, err = NewManager("secret", "study-planner", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMissingSecret(t *testing.T) {
	m := NewManager("", "", 0)

	_, err := m.GenerateToken("user-1", "ada@example.com")
	assert.Error(t, err)
	_, err = m.ValidateToken("anything")
	assert.Error(t, err)
}
