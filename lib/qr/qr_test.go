package qr

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestEncodePNG(t *testing.T) {
	png, err := EncodePNG("https://example.com/pay/scan/request_payment/some-token")

	assert.NoError(t, err)
	assert.Greater(t, len(png), 4)
	assert.Equal(t, pngMagic, png[:4])
}

func TestEncodeBase64PNG(t *testing.T) {
	encoded, err := EncodeBase64PNG("some-token")
	assert.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	assert.NoError(t, err)
	assert.Equal(t, pngMagic, decoded[:4])
}

func TestEncodePNGRejectsEmptyContent(t *testing.T) {
	_, err := EncodePNG("")
	assert.Error(t, err)
}
