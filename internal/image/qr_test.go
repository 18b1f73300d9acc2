package imagepkg

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRRoundTrip(t *testing.T) {
	payload := "# Test\n1xLEAD-001\n4xCARD-001\n2xCARD-002"

	img, err := GenerateQRImage(payload, 400)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())

	got, err := DecodeQR(img)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestQRRoundTripBytes(t *testing.T) {
	payload := "1xOP01-001\n4xOP01-025"

	b, err := GenerateQRPNG(payload, 300)
	require.NoError(t, err)

	got, err := DecodeQRBytes(b)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDecodeQRNotFound(t *testing.T) {
	t.Run("blank image", func(t *testing.T) {
		blank := image.NewNRGBA(image.Rect(0, 0, 200, 200))
		for y := 0; y < 200; y++ {
			for x := 0; x < 200; x++ {
				blank.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
		_, err := DecodeQR(blank)
		assert.ErrorIs(t, err, ErrNoQRCode)
	})

	t.Run("undecodable bytes", func(t *testing.T) {
		_, err := DecodeQRBytes([]byte("not an image"))
		assert.ErrorIs(t, err, ErrNoQRCode)
	})

	t.Run("image without qr", func(t *testing.T) {
		buf := new(bytes.Buffer)
		require.NoError(t, png.Encode(buf, image.NewNRGBA(image.Rect(0, 0, 50, 50))))
		_, err := DecodeQRBytes(buf.Bytes())
		assert.ErrorIs(t, err, ErrNoQRCode)
	})
}
