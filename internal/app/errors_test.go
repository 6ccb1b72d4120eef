package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineError_ErrorString(t *testing.T) {
	err := &EngineError{Code: ErrInvalidInput, Message: "maxItems must be a number"}
	assert.Equal(t, "INVALID_INPUT: maxItems must be a number", err.Error())
}

func TestValidateUserID(t *testing.T) {
	assert.NoError(t, ValidateUserID("u-1"))

	err := ValidateUserID("   ")
	require.Error(t, err)
	var engineErr *EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, ErrInvalidUserID, engineErr.Code)
}

func TestEngineErrorCodes_AreDistinct(t *testing.T) {
	codes := []EngineErrorCode{ErrInvalidUserID, ErrInvalidInput, ErrUnavailable}
	seen := make(map[EngineErrorCode]bool)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
}
