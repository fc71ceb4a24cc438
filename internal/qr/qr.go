// Package qr renders card text as a QR code PNG and reads it back.
package qr

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	qrgen "github.com/skip2/go-qrcode"
)

// QR code errors
var (
	ErrEmpty       = errors.New("card text is empty")
	ErrTooLong     = errors.New("card text is too long for a QR code")
	ErrEncode      = errors.New("failed to encode QR code")
	ErrDecode      = errors.New("failed to decode QR code")
	ErrInvalidSize = errors.New("invalid QR code size")
)

// DefaultSize is the default QR code size in pixels.
const DefaultSize = 256

// MaxSize is the largest accepted QR code size in pixels.
const MaxSize = 4096

// Encode generates a size×size PNG holding card. A size of zero or less
// selects DefaultSize.
func Encode(card string, size int) ([]byte, error) {
	if card == "" {
		return nil, ErrEmpty
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		return nil, ErrInvalidSize
	}

	code, err := qrgen.New(card, qrgen.Medium)
	if err != nil {
		// qrgen.New fails only when card exceeds the largest symbol.
		return nil, errors.Join(ErrTooLong, err)
	}

	data, err := code.PNG(size)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return data, nil
}

// Decode scans a PNG and returns the text stored in its QR code.
func Decode(pngData []byte) (string, error) {
	if len(pngData) == 0 {
		return "", ErrDecode
	}

	img, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		return "", errors.Join(ErrDecode, err)
	}
	return DecodeImage(img)
}

// DecodeImage scans an already decoded image.
func DecodeImage(img image.Image) (string, error) {
	if img == nil {
		return "", ErrDecode
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", errors.Join(ErrDecode, err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", errors.Join(ErrDecode, err)
	}
	return result.GetText(), nil
}
