package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Timeout("shorten", context.DeadlineExceeded))

	assert.ErrorIs(t, err, ErrTimeout)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "server message",
			err:  RequestFailed("shorten", "rate limited", 500, nil),
			want: "rate limited",
		},
		{
			name: "no message",
			err:  &Error{Kind: KindRequestFailed},
			want: "fallback",
		},
		{
			name: "foreign error",
			err:  errors.New("boom"),
			want: "fallback",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MessageOf(tt.err, "fallback"))
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("get", "Link not found", 404)))
	assert.Equal(t, KindClipboardFailed, KindOf(fmt.Errorf("copy: %w", ClipboardFailed("copy", errors.New("denied")))))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestError_String(t *testing.T) {
	err := RequestFailed("delete", "Error deleting link", 500, errors.New("eof"))
	assert.Equal(t, "delete: Error deleting link: eof", err.Error())
}
