package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrSyntax is returned for descriptors that are not "<int>x<int>".
	ErrSyntax = errors.New("expected <int>x<int>")
	// ErrZero is returned when a component that must be positive is zero.
	ErrZero = errors.New("zero dimension")
)

// Spec is the number of columns and rows partitioning an image.
type Spec struct {
	Columns int
	Rows    int
}

// Size is a pixel size in the same "WxH" notation as a grid.
type Size struct {
	Width  int
	Height int
}

// Parse reads a "<columns>x<rows>" descriptor. Both parts must be
// non-negative integers; zero is accepted here and rejected by Validate.
func Parse(text string) (Spec, error) {
	a, b, err := parsePair(text)
	if err != nil {
		return Spec{}, err
	}
	return Spec{Columns: a, Rows: b}, nil
}

// ParseGrid parses a descriptor for a grid used as a divisor.
func ParseGrid(text string) (Spec, error) {
	s, err := Parse(text)
	if err != nil {
		return Spec{}, err
	}
	if err := s.Validate(); err != nil {
		return Spec{}, fmt.Errorf("grid %q: %w", text, err)
	}
	return s, nil
}

// ParseSize parses a "<width>x<height>" canvas size. "0x0" is the zero
// Size, meaning "unspecified"; a single zero component is an error.
func ParseSize(text string) (Size, error) {
	w, h, err := parsePair(text)
	if err != nil {
		return Size{}, err
	}
	if (w == 0) != (h == 0) {
		return Size{}, fmt.Errorf("size %q: %w", text, ErrZero)
	}
	return Size{Width: w, Height: h}, nil
}

func parsePair(text string) (int, int, error) {
	parts := strings.Split(text, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%q: %w", text, ErrSyntax)
	}
	a, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", text, ErrSyntax)
	}
	b, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", text, ErrSyntax)
	}
	return int(a), int(b), nil
}

// Validate reports whether both components are positive.
func (s Spec) Validate() error {
	if s.Columns <= 0 || s.Rows <= 0 {
		return ErrZero
	}
	return nil
}

// Cells is the number of cells in the grid.
func (s Spec) Cells() uint64 {
	return uint64(s.Columns) * uint64(s.Rows)
}

// CellSize is the floored size of one cell of a width×height image.
func (s Spec) CellSize(width, height int) (int, int) {
	return width / s.Columns, height / s.Rows
}

func (s Spec) String() string {
	return fmt.Sprintf("%dx%d", s.Columns, s.Rows)
}

// IsZero reports whether the size was left unspecified.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
