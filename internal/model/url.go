package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMissingShortCode is returned when a link payload carries no short code.
var ErrMissingShortCode = errors.New("link payload has no short_code")

// Link is a shortened link as returned by the remote service.
type Link struct {
	ShortCode string    `json:"short_code"`
	LongURL   string    `json:"long_url"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// LinkPatch holds the fields of a partial link update.
type LinkPatch struct {
	LongURL   string `json:"long_url,omitempty"`
	ShortCode string `json:"short_code,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p LinkPatch) IsEmpty() bool {
	return p.LongURL == "" && p.ShortCode == ""
}

// linkFields covers both API revisions: long_url and the older original_url.
type linkFields struct {
	ShortCode   string    `json:"short_code"`
	LongURL     string    `json:"long_url"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   timestamp `json:"created_at"`
}

func (f linkFields) link() Link {
	longURL := f.LongURL
	if longURL == "" {
		longURL = f.OriginalURL
	}
	return Link{
		ShortCode: f.ShortCode,
		LongURL:   longURL,
		CreatedAt: time.Time(f.CreatedAt),
	}
}

// timestamp accepts RFC 3339 and the zone-less ISO form some backends emit.
// Anything else decodes to the zero time rather than failing the payload.
type timestamp time.Time

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil || raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = timestamp(parsed)
			return nil
		}
	}
	return nil
}

type linkEnvelope struct {
	linkFields
	Data *linkFields `json:"data"`
}

// DecodeLink parses a link object that is either flat or nested under "data".
// The flat/nested tolerance exists only until the backend settles on one shape.
func DecodeLink(raw []byte) (Link, error) {
	var env linkEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Link{}, fmt.Errorf("failed to decode link: %w", err)
	}

	fields := env.linkFields
	if env.Data != nil {
		fields = *env.Data
	}

	if fields.ShortCode == "" {
		return Link{}, ErrMissingShortCode
	}

	return fields.link(), nil
}

// DecodeLinks parses an array of link objects, flat or nested under "data".
func DecodeLinks(raw []byte) ([]Link, error) {
	var items []linkFields
	if err := json.Unmarshal(raw, &items); err != nil {
		var env struct {
			Data []linkFields `json:"data"`
		}
		if envErr := json.Unmarshal(raw, &env); envErr != nil {
			return nil, fmt.Errorf("failed to decode links: %w", err)
		}
		items = env.Data
	}

	links := make([]Link, 0, len(items))
	for _, item := range items {
		links = append(links, item.link())
	}

	return links, nil
}
