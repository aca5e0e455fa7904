// Package retile rearranges the cells of a sprite sheet from one grid
// layout onto another.
//
// Run drives a single sheet through five stages: parse the grid
// descriptors, validate that the output grid can hold every input cell,
// load the sheet, slice and composite it onto a fresh canvas, and save the
// canvas. The first failing stage aborts the run and is reported as a
// *StageError.
package retile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"

	"github.com/PhantomInTheWire/sprite-retile/pkg/grid"
	"github.com/PhantomInTheWire/sprite-retile/pkg/imageio"
	"github.com/PhantomInTheWire/sprite-retile/pkg/split"
	"github.com/PhantomInTheWire/sprite-retile/pkg/stitch"
)

// Stage names a step of the pipeline.
type Stage string

const (
	StageParse     Stage = "parse"
	StageValidate  Stage = "validate"
	StageLoad      Stage = "load"
	StageTransform Stage = "transform"
	StageSave      Stage = "save"
)

// ErrGridTooSmall is returned when the output grid has fewer cells than
// the input grid.
var ErrGridTooSmall = errors.New("Output grid is too small")

// StageError records which stage of a run failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Options describes one re-tiling run. Grid and size fields use the
// "<a>x<b>" notation; an empty OutputSize keeps the input dimensions.
type Options struct {
	Spritesheet     string
	SpritesheetGrid string
	Output          string
	OutputGrid      string
	OutputSize      string

	// Filter resamples cells; the zero value means imaging.Gaussian.
	Filter imaging.ResampleFilter
	// JPEGQuality applies to .jpg/.jpeg outputs; zero keeps imaging's default.
	JPEGQuality int
	// OnCell is forwarded to the compositor.
	OnCell func(placed, total int)
}

// Result summarizes a successful run.
type Result struct {
	InputGrid  grid.Spec
	OutputGrid grid.Spec
	Canvas     grid.Size
	Sliced     int
	Placed     int
}

var filters = map[string]imaging.ResampleFilter{
	"gaussian":          imaging.Gaussian,
	"lanczos":           imaging.Lanczos,
	"catmullrom":        imaging.CatmullRom,
	"mitchellnetravali": imaging.MitchellNetravali,
	"linear":            imaging.Linear,
	"box":               imaging.Box,
	"hermite":           imaging.Hermite,
	"bspline":           imaging.BSpline,
	"bartlett":          imaging.Bartlett,
	"hann":              imaging.Hann,
	"hamming":           imaging.Hamming,
	"blackman":          imaging.Blackman,
	"welch":             imaging.Welch,
	"cosine":            imaging.Cosine,
}

// FilterNames lists the names accepted by FilterByName.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FilterByName looks up a smooth resampling filter. Nearest-neighbor is
// not offered.
func FilterByName(name string) (imaging.ResampleFilter, error) {
	f, ok := filters[name]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown filter %q", name)
	}
	return f, nil
}

type plan struct {
	in, out grid.Spec
	size    grid.Size
}

// Run re-tiles opts.Spritesheet into opts.Output.
func Run(opts Options) (*Result, error) {
	p, err := parse(opts)
	if err != nil {
		return nil, &StageError{Stage: StageParse, Err: err}
	}
	log.WithFields(log.Fields{"input": p.in, "output": p.out}).Debug("Parsed grids")

	if p.in.Cells() > p.out.Cells() {
		return nil, &StageError{Stage: StageValidate, Err: fmt.Errorf("%w: %s has %d cells, %s has %d",
			ErrGridTooSmall, p.in, p.in.Cells(), p.out, p.out.Cells())}
	}

	src, err := imageio.Load(opts.Spritesheet)
	if err != nil {
		return nil, &StageError{Stage: StageLoad, Err: err}
	}
	b := src.Bounds()
	log.WithFields(log.Fields{"path": opts.Spritesheet, "width": b.Dx(), "height": b.Dy()}).Info("Loaded spritesheet")

	if p.size.IsZero() {
		p.size = grid.Size{Width: b.Dx(), Height: b.Dy()}
	}
	canvas, err := stitch.NewCanvas(src, p.size.Width, p.size.Height)
	if err != nil {
		return nil, &StageError{Stage: StageTransform, Err: err}
	}

	cells := split.Cells(src, p.in)
	cw, ch := p.in.CellSize(b.Dx(), b.Dy())
	log.WithFields(log.Fields{"cells": len(cells), "cell_width": cw, "cell_height": ch}).Debug("Sliced spritesheet")

	comp := stitch.Compositor{Filter: opts.Filter, OnCell: opts.OnCell}
	placed, err := comp.Fill(canvas, cells, p.out)
	if err != nil {
		return nil, &StageError{Stage: StageTransform, Err: err}
	}
	log.WithFields(log.Fields{"placed": placed, "canvas": p.size}).Debug("Composited cells")

	var encOpts []imaging.EncodeOption
	if opts.JPEGQuality > 0 {
		encOpts = append(encOpts, imaging.JPEGQuality(opts.JPEGQuality))
	}
	if err := imageio.Save(canvas, opts.Output, encOpts...); err != nil {
		return nil, &StageError{Stage: StageSave, Err: err}
	}
	log.WithFields(log.Fields{"path": opts.Output, "size": p.size, "grid": p.out}).Info("Saved spritesheet")

	return &Result{
		InputGrid:  p.in,
		OutputGrid: p.out,
		Canvas:     p.size,
		Sliced:     len(cells),
		Placed:     placed,
	}, nil
}

func parse(opts Options) (plan, error) {
	var p plan
	var err error
	if p.in, err = grid.ParseGrid(opts.SpritesheetGrid); err != nil {
		return plan{}, fmt.Errorf("spritesheet grid: %w", err)
	}
	if p.out, err = grid.ParseGrid(opts.OutputGrid); err != nil {
		return plan{}, fmt.Errorf("output grid: %w", err)
	}
	if opts.OutputSize != "" {
		if p.size, err = grid.ParseSize(opts.OutputSize); err != nil {
			return plan{}, fmt.Errorf("output size: %w", err)
		}
	}
	if opts.JPEGQuality < 0 || opts.JPEGQuality > 100 {
		return plan{}, fmt.Errorf("jpeg quality %d out of range 1-100", opts.JPEGQuality)
	}
	return p, nil
}
