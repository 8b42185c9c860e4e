package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cret-pass"))
}

func TestHashPassword_InvalidCost(t *testing.T) {
	_, err := HashPassword("long-enough", bcrypt.MaxCost+1)
	assert.Error(t, err)
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("12345"), ErrPasswordTooShort)
	assert.NoError(t, ValidatePassword("123456"))
	assert.NoError(t, ValidatePassword("ñandú!"), "length counts characters, not bytes")
	assert.NoError(t, ValidatePassword(strings.Repeat("a", 72)))
	assert.ErrorIs(t, ValidatePassword(strings.Repeat("a", 73)), ErrPasswordTooLong)

	_, err := HashPassword("short", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
