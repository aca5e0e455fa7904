package stitch

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// MaxCanvasPixels bounds the area of a canvas (16384×16384).
const MaxCanvasPixels = 1 << 28

// ErrCanvasTooLarge is returned for canvases larger than MaxCanvasPixels.
var ErrCanvasTooLarge = errors.New("canvas too large")

// NewCanvas allocates a zero-filled width×height canvas with the same pixel
// model as like. Paletted images are expanded so unfilled cells stay
// transparent and resampled pixels are not snapped to the palette; models
// that cannot be drawn into (YCbCr and friends) also get an NRGBA canvas.
func NewCanvas(like image.Image, width, height int) (draw.Image, error) {
	if width < 0 || height < 0 || uint64(width)*uint64(height) > MaxCanvasPixels {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrCanvasTooLarge)
	}
	r := image.Rect(0, 0, width, height)
	switch like.(type) {
	case *image.RGBA:
		return image.NewRGBA(r), nil
	case *image.NRGBA:
		return image.NewNRGBA(r), nil
	case *image.RGBA64:
		return image.NewRGBA64(r), nil
	case *image.NRGBA64:
		return image.NewNRGBA64(r), nil
	case *image.Gray:
		return image.NewGray(r), nil
	case *image.Gray16:
		return image.NewGray16(r), nil
	case *image.Alpha:
		return image.NewAlpha(r), nil
	case *image.Alpha16:
		return image.NewAlpha16(r), nil
	case *image.CMYK:
		return image.NewCMYK(r), nil
	default:
		return image.NewNRGBA(r), nil
	}
}
