package qr

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
)

// EncodePNG renders content as a QR code PNG.
func EncodePNG(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, 256)
}

// EncodeBase64PNG renders content as a QR code PNG and base64-encodes it for
// transports that want a text body.
func EncodeBase64PNG(content string) (string, error) {
	png, err := EncodePNG(content)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
