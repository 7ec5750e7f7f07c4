package model

import (
	"encoding/json"
	"time"
)

// HistoryEntry is the local record of one successful shortening.
// Both URL keys are written so blobs stay readable by either API revision.
type HistoryEntry struct {
	ShortCode   string    `json:"short_code"`
	LongURL     string    `json:"long_url"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewHistoryEntry projects a link into a history entry created at now.
func NewHistoryEntry(link Link, now time.Time) HistoryEntry {
	return HistoryEntry{
		ShortCode:   link.ShortCode,
		LongURL:     link.LongURL,
		OriginalURL: link.LongURL,
		CreatedAt:   now,
	}
}

// URL returns the long URL, whichever key it was stored under.
func (e HistoryEntry) URL() string {
	if e.LongURL != "" {
		return e.LongURL
	}
	return e.OriginalURL
}

// UnmarshalJSON decodes an entry, leaving CreatedAt zero when the stored
// date is missing or malformed so one bad entry keeps the rest readable.
func (e *HistoryEntry) UnmarshalJSON(b []byte) error {
	type plain HistoryEntry
	var raw struct {
		plain
		CreatedAt timestamp `json:"createdAt"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*e = HistoryEntry(raw.plain)
	e.CreatedAt = time.Time(raw.CreatedAt)
	return nil
}
