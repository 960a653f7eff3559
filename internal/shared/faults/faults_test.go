package faults

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagging(t *testing.T) {
	cause := errors.New("connection refused")

	err := Unavailable(cause)
	require.ErrorIs(t, err, ErrRemoteUnavailable)
	require.ErrorIs(t, err, cause)

	require.Same(t, err, Unavailable(err))
	require.NoError(t, Storage(nil))
	require.ErrorIs(t, Corrupt(cause), ErrCorruptRecord)
}
