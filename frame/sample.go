// Package frame reduces source frames to one pixel per character cell.
package frame

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

var ErrInvalidGridSize = errors.New("grid size must be positive")

// Filters maps the accepted filter names to their scaling kernels.
var Filters = map[string]draw.Scaler{
	"nearest":         draw.NearestNeighbor,
	"approx-bilinear": draw.ApproxBiLinear,
	"bilinear":        draw.BiLinear,
	"catmullrom":      draw.CatmullRom,
}

const DefaultFilter = "nearest"

// Size returns the cell grid dimensions for a source of the given size.
func Size(srcWidth, srcHeight, gridSize int) (int, int) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return 0, 0
	}
	return max(srcWidth/gridSize, 1), max(srcHeight/gridSize, 1)
}

// Sampler downsamples frames, reusing its scratch image between calls while
// the output size stays the same. A Sampler is not safe for concurrent use
// and the returned Buffer is only valid until the next call to Sample.
type Sampler struct {
	scaler  draw.Scaler
	scratch *image.RGBA
}

// NewSampler returns a Sampler using the named filter. An empty name selects
// DefaultFilter.
func NewSampler(filter string) (*Sampler, error) {
	if filter == "" {
		filter = DefaultFilter
	}
	scaler, ok := Filters[filter]
	if !ok {
		return nil, fmt.Errorf("unknown sampling filter %q", filter)
	}
	return &Sampler{scaler: scaler}, nil
}

func (s *Sampler) Sample(src image.Image, gridSize int) (*Buffer, error) {
	if gridSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGridSize, gridSize)
	}

	sr := src.Bounds()
	width, height := Size(sr.Dx(), sr.Dy(), gridSize)
	if width == 0 {
		return &Buffer{}, nil
	}

	dr := image.Rect(0, 0, width, height)
	if s.scratch == nil || s.scratch.Rect != dr {
		s.scratch = image.NewRGBA(dr)
	}
	s.scaler.Scale(s.scratch, dr, src, sr, draw.Src, nil)

	return &Buffer{Pix: s.scratch.Pix, Width: width, Height: height}, nil
}

// Sample downsamples src with nearest-neighbor scaling into a fresh Buffer.
func Sample(src image.Image, gridSize int) (*Buffer, error) {
	s := &Sampler{scaler: draw.NearestNeighbor}
	return s.Sample(src, gridSize)
}
