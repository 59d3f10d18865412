package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("camping123456")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, Verify("camping123456", hash))
	assert.False(t, Verify("wrong-password", hash))
	assert.NotEqual(t, "camping123456", hash)
}

func TestHashToken(t *testing.T) {
	a := HashToken("refresh-token-a")
	b := HashToken("refresh-token-b")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, HashToken("refresh-token-a"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword("1234567"))
	assert.False(t, ValidatePassword(""))
}
