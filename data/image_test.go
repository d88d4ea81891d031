package data

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeGray(t *testing.T, w, h int, fill uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: fill})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	white, err := DecodeImage(bytes.NewReader(encodeGray(t, 8, 6, 255)), 4, 3)
	require.NoError(t, err)
	require.Len(t, white, 12)
	for _, v := range white {
		assert.InDelta(t, 1.0, v, 0.01)
	}

	black, err := DecodeImage(bytes.NewReader(encodeGray(t, 8, 6, 0)), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0}, black)
}

func TestDecodeImage_Errors(t *testing.T) {
	_, err := DecodeImage(bytes.NewReader(encodeGray(t, 2, 2, 0)), 0, 2)
	assert.Error(t, err)

	_, err = DecodeImage(bytes.NewReader([]byte("not an image")), 2, 2)
	assert.Error(t, err)
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digit.png")
	require.NoError(t, os.WriteFile(path, encodeGray(t, 28, 28, 255), 0o644))

	v, err := LoadImage(path, 28, 28)
	require.NoError(t, err)
	assert.Len(t, v, 28*28)

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"), 28, 28)
	assert.Error(t, err)
}
