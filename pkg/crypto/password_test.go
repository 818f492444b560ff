package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_Verify(t *testing.T) {
	hash, err := HashPassword("hunter2", 100)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "pbkdf2-sha256$100$"))

	require.True(t, VerifyPassword("hunter2", hash))
	require.False(t, VerifyPassword("hunter3", hash))
	require.False(t, VerifyPassword("", hash))
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	h1, err := HashPassword("same password", 100)
	require.NoError(t, err)

	h2, err := HashPassword("same password", 100)
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.True(t, VerifyPassword("same password", h1))
	require.True(t, VerifyPassword("same password", h2))
}

func TestHashPassword_InvalidIterations(t *testing.T) {
	_, err := HashPassword("x", 0)
	require.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	require.False(t, VerifyPassword("x", ""))
	require.False(t, VerifyPassword("x", "not-a-hash"))
	require.False(t, VerifyPassword("x", "pbkdf2-sha256$abc$AAAA$AAAA"))
	require.False(t, VerifyPassword("x", "pbkdf2-sha256$100$!!$AAAA"))
	require.False(t, VerifyPassword("x", "bcrypt$100$AAAA$AAAA"))
}
