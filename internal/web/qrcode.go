package web

import (
	"errors"

	"github.com/skip2/go-qrcode"
)

const defaultQRCodeSizePx = 256

// qrCodePNG encodes payload as a PNG QR code.
func qrCodePNG(payload string, sizePx int) ([]byte, error) {
	if payload == "" {
		return nil, errors.New("empty qr payload")
	}
	if sizePx <= 0 {
		sizePx = defaultQRCodeSizePx
	}

	qrCode, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	return qrCode.PNG(sizePx)
}
