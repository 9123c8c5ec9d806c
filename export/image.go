// Package export rasterizes a rendered grid into a still image.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"asciicam/glyph"
)

var ErrEmptyGrid = errors.New("nothing to export")

const (
	DefaultFontSize = 12
	DefaultPadding  = 20
	// advanceRatio is the assumed glyph advance of a monospace font, in ems.
	advanceRatio = 0.6
	// lineRatio derives a line height from the font size when none is set.
	lineRatio = 1.2
)

type Options struct {
	// FontSize and LineHeight are in pixels.
	FontSize   float64
	LineHeight float64
	Padding    int
	Foreground color.Color
	Background color.Color
	// Font is a TrueType or OpenType font file. Go Mono is used when empty.
	Font []byte
}

func DefaultOptions() Options {
	return Options{
		FontSize:   DefaultFontSize,
		LineHeight: DefaultFontSize * lineRatio,
		Padding:    DefaultPadding,
		Foreground: color.Black,
		Background: color.White,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.LineHeight <= 0 {
		o.LineHeight = o.FontSize * lineRatio
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.Foreground == nil {
		o.Foreground = d.Foreground
	}
	if o.Background == nil {
		o.Background = d.Background
	}
	return o
}

// LoadFont reads a font file for Options.Font and checks that it parses.
func LoadFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read font %q: %w", path, err)
	}
	if _, err := opentype.Parse(data); err != nil {
		return nil, fmt.Errorf("could not parse font %q: %w", path, err)
	}
	return data, nil
}

var goMono = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(gomono.TTF)
})

func parseFont(data []byte) (*opentype.Font, error) {
	if len(data) == 0 {
		return goMono()
	}
	return opentype.Parse(data)
}

// Size returns the canvas size used for grid.
func Size(grid glyph.Grid, opts Options) image.Point {
	opts = opts.withDefaults()
	return image.Pt(
		int(math.Ceil(float64(grid.Width())*opts.FontSize*advanceRatio))+2*opts.Padding,
		int(math.Ceil(float64(grid.Height())*opts.LineHeight))+2*opts.Padding,
	)
}

// Render draws grid top-aligned on a padded canvas.
func Render(grid glyph.Grid, opts Options) (*image.RGBA, error) {
	if grid.Height() == 0 || grid.Width() == 0 {
		return nil, ErrEmptyGrid
	}
	opts = opts.withDefaults()

	f, err := parseFont(opts.Font)
	if err != nil {
		return nil, fmt.Errorf("could not parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create font face: %w", err)
	}
	defer func() {
		_ = face.Close()
	}()

	size := Size(grid, opts)
	img := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Rect, image.NewUniform(opts.Background), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(opts.Foreground),
		Face: face,
	}
	ascent := face.Metrics().Ascent
	for i, line := range grid.Lines {
		top := float64(opts.Padding) + float64(i)*opts.LineHeight
		d.Dot = fixed.Point26_6{
			X: fixed.I(opts.Padding),
			Y: fixed.Int26_6(top*64) + ascent,
		}
		d.DrawString(line)
	}

	return img, nil
}
