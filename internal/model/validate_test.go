package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MikhailRaia/shortify/internal/model"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"ok/https_path", "https://example.com/very/long/path", true},
		{"ok/http_query", "http://example.com/?q=1#frag", true},
		{"ok/padded", "  https://example.com  ", true},
		{"ok/port", "http://localhost:8080/x", true},
		{"ok/mailto", "mailto:someone@example.com", true},

		{"bad/empty", "", false},
		{"bad/spaces_only", "   ", false},
		{"bad/words", "not a url", false},
		{"bad/no_scheme", "example.com/path", false},
		{"bad/relative", "/just/a/path", false},
		{"bad/scheme_only", "https://", false},
		{"bad/space_in_host", "https://exa mple.com", false},
		{"bad/leading_colon", "://example.com", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := model.ValidateURL(tc.in)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, model.ErrInvalidURL)
			}
		})
	}
}
