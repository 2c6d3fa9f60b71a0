package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_TextRoundTrip(t *testing.T) {
	for _, status := range []Status{Passed, Failed, Limited, Skipped, Error} {
		text, err := status.MarshalText()
		require.NoError(t, err)

		var decoded Status
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, status, decoded)
	}
}

func TestStatus_UnmarshalTextRejectsUnknown(t *testing.T) {
	decoded := Passed

	err := decoded.UnmarshalText([]byte("exploded"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exploded")
	assert.Equal(t, Passed, decoded)
}
