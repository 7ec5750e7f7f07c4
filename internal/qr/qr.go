// Package qr renders short URLs as QR code images.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length of rendered codes in pixels.
const DefaultSize = 192

const dataURIPrefix = "data:image/png;base64,"

// DataURI encodes text as a PNG QR code embedded in a data URI.
func DataURI(text string, size int) (string, error) {
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}
