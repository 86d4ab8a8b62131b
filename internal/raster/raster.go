// Package raster decodes images into height maps for relief milling.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"camcore/cnc"
	"camcore/internal/logging"
)

var (
	// ErrEmptyData is returned for a zero-length image.
	ErrEmptyData = errors.New("raster: empty data")

	// ErrEmptyImage is returned when the decoded image has no pixels.
	ErrEmptyImage = errors.New("raster: empty image")
)

// Options control how an image is sampled into a height map. When only
// one of Width and Height is set the other follows the image aspect ratio;
// when neither is set the image is used at its own size.
type Options struct {
	Width  int
	Height int
}

func (o Options) size(b image.Rectangle) (int, int) {
	w, h := o.Width, o.Height
	sw, sh := b.Dx(), b.Dy()
	switch {
	case w > 0 && h > 0:
	case w > 0:
		h = max(1, (w*sh+sw/2)/sw)
	case h > 0:
		w = max(1, (h*sw+sh/2)/sh)
	default:
		w, h = sw, sh
	}
	return w, h
}

// Decode reads an image in any registered format (PNG, JPEG, GIF, BMP,
// TIFF, WebP).
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("raster: decode: %w", err)
	}
	logging.Logger().Debug("raster: decoded image", "format", format, "bounds", img.Bounds())
	return img, nil
}

// Heightmap samples img into a greyscale height map. Transparent areas
// count as white, that is uncut.
func Heightmap(img image.Image, opts Options) (*cnc.Heightmap, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	w, h := opts.size(b)

	flat := image.NewRGBA(b)
	draw.Draw(flat, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, b, img, b.Min, draw.Over)

	gray := image.NewGray(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(gray, gray.Bounds(), flat, b.Min, draw.Src)
	} else {
		xdraw.CatmullRom.Scale(gray, gray.Bounds(), flat, b, xdraw.Src, nil)
	}

	hm := &cnc.Heightmap{Width: w, Height: h, Pix: make([]uint8, w*h)}
	for y := 0; y < h; y++ {
		copy(hm.Pix[y*w:(y+1)*w], gray.Pix[y*gray.Stride:y*gray.Stride+w])
	}
	return hm, nil
}

// Read decodes an image from r and samples it into a height map.
func Read(r io.Reader, opts Options) (*cnc.Heightmap, error) {
	img, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return Heightmap(img, opts)
}

// ReadBytes is Read over an in-memory image.
func ReadBytes(data []byte, opts Options) (*cnc.Heightmap, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Read(bytes.NewReader(data), opts)
}

// Load reads the image file at path into a height map.
func Load(path string, opts Options) (*cnc.Heightmap, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("raster: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f, opts)
}
