package raster

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
	"golang.org/x/image/bmp"
)

func grayImage(w, h int, f func(x, y int) uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: f(x, y)})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestReadKeepsPixels(t *testing.T) {
	img := grayImage(4, 2, func(x, y int) uint8 { return uint8(x*60 + y*10) })
	hm, err := ReadBytes(encodePNG(t, img), Options{})
	require.NoError(t, err)

	assert.Equal(t, 4, hm.Width)
	assert.Equal(t, 2, hm.Height)
	assert.Equal(t, []uint8{0, 60, 120, 180, 10, 70, 130, 190}, hm.Pix)
}

func TestReadBMP(t *testing.T) {
	img := grayImage(3, 3, func(x, y int) uint8 { return uint8(x * y * 20) })
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))

	hm, err := Read(&buf, Options{})
	require.NoError(t, err)
	assert.Equal(t, uint8(80), hm.At(2, 2))
	assert.Equal(t, uint8(0), hm.At(0, 2))
}

func TestHeightmapResamples(t *testing.T) {
	img := grayImage(40, 20, func(int, int) uint8 { return 100 })

	tests := []struct {
		name       string
		opts       Options
		wantW, wantH int
	}{
		{"width only", Options{Width: 10}, 10, 5},
		{"height only", Options{Height: 4}, 8, 4},
		{"both", Options{Width: 7, Height: 7}, 7, 7},
		{"native", Options{}, 40, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm, err := Heightmap(img, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, hm.Width)
			assert.Equal(t, tt.wantH, hm.Height)
			require.Len(t, hm.Pix, tt.wantW*tt.wantH)
			for _, v := range hm.Pix {
				assert.InDelta(t, 100, int(v), 1)
			}
		})
	}
}

func TestTransparentIsWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	hm, err := Heightmap(img, Options{})
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 255}, hm.Pix)
}

func TestSubImageBounds(t *testing.T) {
	img := grayImage(4, 4, func(x, y int) uint8 { return uint8(10*x + y) })
	sub := img.SubImage(image.Rect(2, 2, 4, 4))
	hm, err := Heightmap(sub, Options{})
	require.NoError(t, err)
	assert.Equal(t, []uint8{22, 32, 23, 33}, hm.Pix)
}

func TestReadErrors(t *testing.T) {
	_, err := ReadBytes(nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyData)

	_, err = ReadBytes([]byte("not an image"), Options{})
	assert.Error(t, err)

	_, err = Heightmap(image.NewGray(image.Rectangle{}), Options{})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	img := grayImage(2, 2, func(x, y int) uint8 { return 255 })
	require.NoError(t, os.WriteFile(path, encodePNG(t, img), 0o644))

	hm, err := Load(path, Options{Width: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, hm.Width)
	assert.Equal(t, 1, hm.Height)

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"), Options{})
	assert.Error(t, err)
}
