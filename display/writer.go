// Package display publishes rendered grids.
package display

import (
	"fmt"
	"io"
	"sync"

	"asciicam/glyph"
)

// Sink consumes rendered grids. Publish may be called from any goroutine but
// never concurrently with itself.
type Sink interface {
	Publish(glyph.Grid) error
}

// home moves the cursor to the top-left corner.
const home = "\x1b[H"

// Writer writes each grid as a text blob to W.
type Writer struct {
	W io.Writer
	// Redraw prefixes every frame with a cursor-home sequence so frames
	// overwrite each other on a terminal.
	Redraw bool

	mu   sync.Mutex
	last glyph.Grid
}

func (w *Writer) Publish(g glyph.Grid) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.Redraw {
		if _, err := io.WriteString(w.W, home); err != nil {
			return fmt.Errorf("could not write frame: %w", err)
		}
	}
	if _, err := io.WriteString(w.W, g.String()); err != nil {
		return fmt.Errorf("could not write frame: %w", err)
	}
	w.last = g
	return nil
}

// Last returns the most recently published grid.
func (w *Writer) Last() glyph.Grid {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}
