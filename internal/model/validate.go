package model

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned for strings the URL parser rejects.
var ErrInvalidURL = errors.New("invalid URL")

// ValidateURL accepts what a browser URL constructor accepts: an absolute
// URL with a scheme, and a host for hierarchical web schemes.
func ValidateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrInvalidURL
	}

	u, err := url.Parse(s)
	if err != nil {
		return ErrInvalidURL
	}

	if u.Scheme == "" {
		return ErrInvalidURL
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp", "ws", "wss":
		if u.Host == "" {
			return ErrInvalidURL
		}
	}

	return nil
}
