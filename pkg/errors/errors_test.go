package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeShapeMismatch, "add: %s", "2x3 vs 3x2")

	if err.Code != ErrCodeShapeMismatch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeShapeMismatch)
	}

	if err.Message != "add: 2x3 vs 3x2" {
		t.Errorf("Message = %v, want %v", err.Message, "add: 2x3 vs 3x2")
	}

	expected := "SHAPE_MISMATCH: add: 2x3 vs 3x2"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInvalidConfig, cause, "failed to read config")

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidConfig)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "INVALID_CONFIG: failed to read config: underlying error"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeCyclicDependency, "x"),
			code:     ErrCodeCyclicDependency,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeIndex, "x"),
			code:     ErrCodeDimension,
			expected: false,
		},
		{
			name:     "wrapped with fmt",
			err:      fmt.Errorf("substitute: %w", New(ErrCodeShapeMismatch, "x")),
			code:     ErrCodeShapeMismatch,
			expected: true,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInternal,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeEmptyInput, "x")); got != ErrCodeEmptyInput {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeEmptyInput)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "demo %q not found", "chain")); got != `demo "chain" not found` {
		t.Errorf("UserMessage() = %v", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %v, want plain", got)
	}
}
