package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  New(CodeNotFound, "content not found"),
			want: "NOT_FOUND: content not found",
		},
		{
			name: "with cause",
			err:  Wrap(errors.New("boom"), CodeStorage, "failed to create content"),
			want: "STORAGE_ERROR: failed to create content (caused by: boom)",
		},
		{
			name: "formatted message",
			err:  Newf(CodeNotFound, "Parent node id: %d doesn't exist", 7),
			want: "NOT_FOUND: Parent node id: 7 doesn't exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestCodeOf(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("outer: %w", Wrap(cause, CodeStorage, "failed to query"))

	assert.Equal(t, CodeStorage, CodeOf(wrapped))
	assert.True(t, Is(wrapped, CodeStorage))
	assert.False(t, Is(wrapped, CodeConflict))
	assert.ErrorIs(t, wrapped, cause)

	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.False(t, Is(nil, CodeInternal))
}
