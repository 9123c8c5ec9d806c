// Package glyph maps reduced frames to character grids.
package glyph

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"asciicam/frame"
)

var (
	ErrEmptyCharSet = errors.New("character set is empty")
	ErrBufferSize   = errors.New("pixel buffer size mismatch")
)

// Tuning is the snapshot of user controls a single frame is rendered with.
type Tuning struct {
	Set        CharSet
	GridSize   int
	Contrast   int
	Brightness int
}

// Grid is a rendered frame, one string per row of cells.
type Grid struct {
	Lines []string
}

func (g Grid) Height() int {
	return len(g.Lines)
}

func (g Grid) Width() int {
	if len(g.Lines) == 0 {
		return 0
	}
	return len([]rune(g.Lines[0]))
}

// String returns the text blob, each line terminated by a line break.
func (g Grid) String() string {
	var sb strings.Builder
	for _, line := range g.Lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Luminance returns the perceptual brightness of a pixel in [0, 1] using the
// 0.299/0.587/0.114 weights. The sum is taken in integer thousandths so that
// white maps to exactly 1.
func Luminance(r, g, b uint8) float64 {
	return float64(299*int(r)+587*int(g)+114*int(b)) / 255000
}

// Adjust applies the contrast and brightness transfer around the midpoint and
// clamps the result to [0, 1]. A contrast of 50 is neutral.
func Adjust(l float64, contrast, brightness int) float64 {
	v := (l-0.5)*(float64(contrast)/50) + 0.5 + float64(brightness)/100
	return min(max(v, 0), 1)
}

// Index maps an adjusted luminance to a glyph index in [0, n-1].
func Index(l float64, n int) int {
	idx := int(math.Floor(l * float64(n-1)))
	return min(max(idx, 0), n-1)
}

// Render converts every pixel of buf to a glyph of t.Set, one line per row.
func Render(buf *frame.Buffer, t Tuning) (Grid, error) {
	n := t.Set.Len()
	if n == 0 {
		return Grid{}, ErrEmptyCharSet
	}
	if err := buf.Check(); err != nil {
		return Grid{}, fmt.Errorf("%w: %w", ErrBufferSize, err)
	}

	grid := Grid{Lines: make([]string, buf.Height)}
	var line strings.Builder
	for y := range buf.Height {
		line.Reset()
		line.Grow(buf.Width)
		for x := range buf.Width {
			l := Adjust(Luminance(buf.RGB(x, y)), t.Contrast, t.Brightness)
			line.WriteRune(t.Set.Glyphs[Index(l, n)])
		}
		grid.Lines[y] = line.String()
	}
	return grid, nil
}
