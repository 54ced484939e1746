package services

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRGenerator renders ticket codes as QR images
type QRGenerator interface {
	DataURL(content string) (string, error)
}

// QRGeneratorImpl produces PNG QR codes embedded as data URLs so they can
// be dropped straight into an <img> tag.
type QRGeneratorImpl struct {
	size int
}

// NewQRGenerator creates a QR generator. Size is the square pixel
// dimension of the rendered PNG.
func NewQRGenerator(size int) QRGenerator {
	if size <= 0 {
		size = 300
	}
	return &QRGeneratorImpl{size: size}
}

func (g *QRGeneratorImpl) DataURL(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, g.size)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
