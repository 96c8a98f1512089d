package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	require.Equal(t, ErrCodeInvalidInput, err.Code)
	require.Equal(t, "test message: value", err.Message)
	require.EqualError(t, err, "INVALID_INPUT: test message: value")
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "failed to smooth")

	require.Equal(t, ErrCodeInternal, err.Code)
	require.Equal(t, cause, err.Cause)
	require.Equal(t, cause, errors.Unwrap(err))
	require.ErrorIs(t, err, cause)
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "test"), ErrCodeInvalidInput, true},
		{"non-matching code", New(ErrCodeInvalidInput, "test"), ErrCodeInternal, false},
		{"wrapped error", Wrap(ErrCodeInternal, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeInternal, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Is(tt.err, tt.code))
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidGraph, "test"), ErrCodeInvalidGraph},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, GetCode(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}

func TestCodeIsInvalid(t *testing.T) {
	for _, c := range []Code{ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidEpsilon, ErrCodeInvalidConfig} {
		require.True(t, c.IsInvalid(), c)
	}
	for _, c := range []Code{ErrCodeFileNotFound, ErrCodeInternal, ErrCodeTimeout, ""} {
		require.False(t, c.IsInvalid(), c)
	}
}
