package stitch

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"

	"github.com/PhantomInTheWire/sprite-retile/pkg/grid"
)

// ErrOutOfBounds is returned when a paste would write outside the canvas.
var ErrOutOfBounds = errors.New("region outside canvas bounds")

// Compositor lays resized cells out on a canvas grid.
type Compositor struct {
	// Filter resamples each cell to the destination cell size. Filters
	// without support (the zero value, NearestNeighbor) fall back to
	// imaging.Gaussian.
	Filter imaging.ResampleFilter

	// OnCell, if set, is called after each cell is placed.
	OnCell func(placed, total int)
}

// Fill places cells on canvas using the default Compositor.
func Fill(canvas draw.Image, cells []image.Image, g grid.Spec) (int, error) {
	return Compositor{}.Fill(canvas, cells, g)
}

// Fill resizes cells to canvas/g and copies them onto canvas in row-major
// order, overwriting the destination pixels. It stops when either the
// cells or the destination grid run out and returns how many cells were
// placed; destinations past that stay untouched.
func (c Compositor) Fill(canvas draw.Image, cells []image.Image, g grid.Spec) (int, error) {
	if err := g.Validate(); err != nil {
		return 0, fmt.Errorf("output grid %s: %w", g, err)
	}
	filter := c.Filter
	if filter.Support <= 0 {
		filter = imaging.Gaussian
	}

	b := canvas.Bounds()
	tw, th := g.CellSize(b.Dx(), b.Dy())

	total := len(cells)
	if n := g.Cells(); uint64(total) > n {
		total = int(n)
	}

	for i := 0; i < total; i++ {
		at := image.Pt(i%g.Columns*tw, i/g.Columns*th)
		// imaging.Resize derives a missing dimension from the aspect
		// ratio, so a zero-sized destination must not reach it.
		if tw > 0 && th > 0 {
			thumb := cells[i]
			// Resize always yields 8-bit NRGBA; cells that already fit
			// are copied as-is to keep deeper pixel models exact.
			if thumb.Bounds().Size() != image.Pt(tw, th) {
				thumb = imaging.Resize(thumb, tw, th, filter)
			}
			if err := Paste(canvas, thumb, at); err != nil {
				return i, fmt.Errorf("cell %d: %w", i, err)
			}
		}
		if c.OnCell != nil {
			c.OnCell(i+1, total)
		}
	}
	return total, nil
}

// Paste copies img onto canvas with its top-left corner at the given
// offset from the canvas origin. Unlike imaging.Paste it replaces pixels
// (draw.Src) and refuses to clip.
func Paste(canvas draw.Image, img image.Image, at image.Point) error {
	cb := canvas.Bounds()
	sb := img.Bounds()
	dst := image.Rectangle{Min: at, Max: at.Add(sb.Size())}.Add(cb.Min)
	if !dst.In(cb) {
		return fmt.Errorf("%v in %v: %w", dst, cb, ErrOutOfBounds)
	}
	draw.Draw(canvas, dst, img, sb.Min, draw.Src)
	return nil
}
