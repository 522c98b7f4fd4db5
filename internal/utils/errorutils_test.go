package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSentinel = errors.New("sentinel")

func wrapHere(err error) error {
	return WrapIfNotNil(err, "dictation_id=4")
}

func TestWrapIfNotNil(t *testing.T) {
	assert.NoError(t, WrapIfNotNil(nil))

	err := wrapHere(errSentinel)
	require.Error(t, err)
	assert.ErrorIs(t, err, errSentinel)
	assert.Contains(t, err.Error(), "utils.wrapHere")
	assert.Contains(t, err.Error(), "dictation_id=4")
}

func TestContainsErrorSubstring(t *testing.T) {
	err := wrapHere(errors.New("connection refused"))

	assert.True(t, ContainsErrorSubstring(err, "refused"))
	assert.False(t, ContainsErrorSubstring(err, "timeout"))
	assert.False(t, ContainsErrorSubstring(nil, "anything"))
}
