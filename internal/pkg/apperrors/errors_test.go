package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoteError_UnwrapsStatusSentinels(t *testing.T) {
	err := fmt.Errorf("create course: %w", NewRemoteError(409, "dup"))

	assert.True(t, errors.Is(err, ErrRemoteFailure))
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrResourceNotFound))
	assert.Equal(t, "dup", Message(err))
}

func TestRemoteError_EmptyMessage(t *testing.T) {
	err := NewRemoteError(500, "")
	assert.Equal(t, "backend reported failure (status 500)", err.Error())
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "network", err: fmt.Errorf("%w: dial tcp", ErrNetwork), want: "Unable to reach the server. Please try again."},
		{name: "cancelled", err: fmt.Errorf("fetch: %w", ErrRequestCancelled), want: "request cancelled"},
		{name: "custom", err: NewValidationError("name is required"), want: "name is required"},
		{name: "plain", err: errors.New("boom"), want: "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestIs(t *testing.T) {
	err := NewResourceNotFoundError("course not found")
	assert.True(t, Is(err, ErrConflict, ErrResourceNotFound))
	assert.False(t, Is(err, ErrConflict, ErrBadRequest))
}
