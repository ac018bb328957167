package prompt

import (
	"fmt"
	"testing"

	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateServer(t *testing.T) {
	for _, ok := range []string{"localhost:2049", "10.0.0.1:2049", "[fe80::1]:20490", " nfs:2049 "} {
		assert.NoError(t, ValidateServer(ok), ok)
	}
	for _, bad := range []string{"", "localhost", ":2049", "host:0", "host:65536", "host:nfs"} {
		assert.Error(t, ValidateServer(bad), bad)
	}
}

func TestValidateUint32(t *testing.T) {
	assert.NoError(t, ValidateUint32("0"))
	assert.NoError(t, ValidateUint32("4294967295"))
	assert.Error(t, ValidateUint32("4294967296"))
	assert.Error(t, ValidateUint32("-1"))
	assert.Error(t, ValidateUint32("root"))
}

func TestParseUint32List(t *testing.T) {
	ids, err := ParseUint32List(" 10, 20,30 ")
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 20, 30}, ids)

	ids, err = ParseUint32List("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseUint32List("1,,2")
	assert.Error(t, err)
}

func TestIsAborted(t *testing.T) {
	assert.True(t, IsAborted(promptui.ErrInterrupt))
	assert.True(t, IsAborted(fmt.Errorf("wrapped: %w", ErrAborted)))
	assert.False(t, IsAborted(promptui.ErrAbort))
	assert.ErrorIs(t, wrapError(promptui.ErrInterrupt), ErrAborted)
	assert.NoError(t, wrapError(nil))
}
