package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	require.NotEqual(t, "secret1", hash)

	require.True(t, CheckPassword(hash, "secret1"))
	require.False(t, CheckPassword(hash, "secret2"))
	require.False(t, CheckPassword("not-a-hash", "secret1"))
}
