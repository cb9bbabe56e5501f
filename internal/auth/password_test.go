package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("abc12345")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "abc12345", hash)

	assert.True(t, CheckPasswordHash("abc12345", hash))
	assert.False(t, CheckPasswordHash("abc12346", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("abc12345")
	require.NoError(t, err)
	h2, err := HashPassword("abc12345")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
