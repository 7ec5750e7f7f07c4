// Package generator produces random secrets.
package generator

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultSecretBytes is the entropy of a generated session secret.
const DefaultSecretBytes = 32

// Secret returns a URL-safe encoding of n random bytes.
func Secret(n int) (string, error) {
	if n <= 0 {
		n = DefaultSecretBytes
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
