package split

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/PhantomInTheWire/sprite-retile/pkg/grid"
)

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Rects returns the g.Columns×g.Rows cell rectangles of bounds in
// row-major order. Cell origins use x*W/C while every cell is W/C wide,
// so an unevenly divisible image leaves a strip past the last cell
// unsliced.
func Rects(bounds image.Rectangle, g grid.Spec) []image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	cw, ch := g.CellSize(w, h)

	rects := make([]image.Rectangle, 0, g.Columns*g.Rows)
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Columns; x++ {
			x0 := bounds.Min.X + x*w/g.Columns
			y0 := bounds.Min.Y + y*h/g.Rows
			rects = append(rects, image.Rect(x0, y0, x0+cw, y0+ch))
		}
	}
	return rects
}

// Cells crops img into one sub-image per cell of g, row-major. Images
// that support SubImage share pixels with img; others are copied.
func Cells(img image.Image, g grid.Spec) []image.Image {
	rects := Rects(img.Bounds(), g)
	cells := make([]image.Image, len(rects))
	sub, ok := img.(subImager)
	for i, r := range rects {
		if ok {
			cells[i] = sub.SubImage(r)
		} else {
			cells[i] = imaging.Crop(img, r)
		}
	}
	return cells
}
