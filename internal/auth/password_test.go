package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	digest, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	assert.NotEqual(t, "correct horse battery staple", digest)

	assert.True(t, CheckPassword("correct horse battery staple", digest))
	assert.False(t, CheckPassword("wrong password", digest))
	assert.False(t, CheckPassword("", digest))
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same-input")
	require.NoError(t, err)
	b, err := HashPassword("same-input")
	require.NoError(t, err)

	// bcrypt salts every digest; both still verify.
	assert.NotEqual(t, a, b)
	assert.True(t, CheckPassword("same-input", a))
	assert.True(t, CheckPassword("same-input", b))
}
