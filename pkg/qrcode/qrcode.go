package qrcode

import (
	"errors"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// Terminal renders content as a QR code made of block characters, for
// scanning a checkout or portal link from a phone.
func Terminal(content string) (string, error) {
	if content == "" {
		return "", errors.New("qrcode: empty content")
	}

	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}

	return code.ToSmallString(false), nil
}
