// Package promo renders the shareable artefacts of the show: a QR code that
// points at the page and a printable flyer.
package promo

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRPNG encodes text as a square PNG QR code of size pixels with medium
// (15%) error correction.
func QRPNG(text string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	qr, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	png, err := qr.PNG(size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
