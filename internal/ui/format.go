package ui

import (
	"strconv"
	"time"
	"unicode/utf8"
)

// DateLayout renders dates older than a week as MM/DD/YY.
const DateLayout = "01/02/06"

// FormatRelative describes t relative to now the way the history panel does.
func FormatRelative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	mins := int(d / time.Minute)
	hours := int(d / time.Hour)
	days := int(d / (24 * time.Hour))

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return strconv.Itoa(mins) + " min ago"
	case hours < 24:
		return strconv.Itoa(hours) + " hours ago"
	case days < 7:
		return strconv.Itoa(days) + " days ago"
	}

	return t.In(now.Location()).Format(DateLayout)
}

// Truncate cuts text to n characters and appends "..." when it was longer.
func Truncate(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}

	runes := []rune(text)
	return string(runes[:n]) + "..."
}
