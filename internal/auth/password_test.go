package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := hashPassword("secret123")
	require.NoError(t, err)
	require.NotEqual(t, "secret123", hash)

	require.True(t, passwordMatches(hash, "secret123"))
	require.False(t, passwordMatches(hash, "secret124"))
	require.False(t, passwordMatches("not-a-bcrypt-hash", "secret123"))
}
