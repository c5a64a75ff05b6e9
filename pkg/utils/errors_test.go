package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSomethingWentWrong = errors.New("something went wrong")

func TestMakeError_WrapsTheSentinel(t *testing.T) {
	err := MakeError(errSomethingWentWrong, "'%v'", "detail")

	require.Error(t, err)
	assert.ErrorIs(t, err, errSomethingWentWrong, "callers match on the sentinel with errors.Is")
}

func TestMakeError_FormatsTheDetails(t *testing.T) {
	err := MakeError(errSomethingWentWrong, "value %v at offset %v", 42, 7)

	assert.Equal(t, "something went wrong: value 42 at offset 7", err.Error())
}
