package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestTokenExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue("alice")
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenBadSignature(t *testing.T) {
	issuer := NewManager("one-secret", time.Hour)
	validator := NewManager("another-secret", time.Hour)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = validator.Validate(token)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestTokenMalformed(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	for _, garbage := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Validate(garbage)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", garbage)
	}
}

func TestTokenSubjectMissing(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	// Valid signature and expiry but no subject claim.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrSubjectMissing)
}
