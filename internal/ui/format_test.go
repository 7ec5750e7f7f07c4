package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRelative(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds ago", now.Add(-30 * time.Second), "Just now"},
		{"clock skew", now.Add(time.Minute), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5 min ago"},
		{"almost an hour", now.Add(-59 * time.Minute), "59 min ago"},
		{"hours", now.Add(-2 * time.Hour), "2 hours ago"},
		{"days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
		{"older than a week", time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), "09/01/26"},
		{"zero", time.Time{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRelative(tt.t, now))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 50))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "абв...", Truncate("абвгд", 3))
	assert.Equal(t, "exact", Truncate("exact", 5))
}
