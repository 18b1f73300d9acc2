package imagepkg

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/disintegration/imaging"
)

// ErrNoQRCode means no QR code could be located in the supplied bitmap. It
// is distinct from a codec error on the decoded payload.
var ErrNoQRCode = errors.New("no QR code detected")

// GenerateQRPNG returns PNG bytes of a QR code for the given text. Medium
// error correction holds a full 50-line deck list comfortably.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, size)
}

// GenerateQRImage returns an image.Image for further composition.
func GenerateQRImage(text string, size int) (image.Image, error) {
	b, err := GenerateQRPNG(text, size)
	if err != nil {
		return nil, err
	}
	return png.Decode(bytes.NewReader(b))
}

// DecodeQR extracts the text payload of a QR code somewhere in img,
// returning ErrNoQRCode when none is found.
func DecodeQR(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", ErrNoQRCode
	}
	res, err := zxqrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", ErrNoQRCode
	}
	return res.GetText(), nil
}

// DecodeQRBytes decodes an uploaded image file (png/jpeg) and reads the QR
// code out of it.
func DecodeQRBytes(b []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(b))
	if err != nil {
		return "", ErrNoQRCode
	}
	return DecodeQR(img)
}
