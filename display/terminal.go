package display

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"asciicam/glyph"
	"asciicam/tuning"
)

// ExportFunc saves a grid and returns where it went.
type ExportFunc func(glyph.Grid) (string, error)

// Terminal draws grids on a full-screen terminal and turns key presses into
// tuning changes.
type Terminal struct {
	screen tcell.Screen
	state  *tuning.State
	export ExportFunc
	logger *slog.Logger
	// Status shows the current tuning on the bottom row.
	Status bool

	mu     sync.Mutex
	last   glyph.Grid
	notice string
}

// NewTerminal initializes screen. A nil export disables the export key.
func NewTerminal(screen tcell.Screen, state *tuning.State, export ExportFunc, logger *slog.Logger) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("could not initialize terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.HideCursor()
	screen.Clear()

	return &Terminal{
		screen: screen,
		state:  state,
		export: export,
		logger: logger,
		Status: true,
	}, nil
}

func (t *Terminal) Publish(g glyph.Grid) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = g
	t.draw()
	return nil
}

// draw must be called with mu held.
func (t *Terminal) draw() {
	t.screen.Clear()
	width, height := t.screen.Size()

	rows := height
	if t.Status {
		rows--
	}
	for y, line := range t.last.Lines {
		if y >= rows {
			break
		}
		x := 0
		for _, r := range line {
			if x >= width {
				break
			}
			t.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
			x++
		}
	}

	if t.Status && height > 0 {
		tn, _ := t.state.Snapshot()
		status := fmt.Sprintf(" %s  grid %d  contrast %d  brightness %d ", tn.Set.Name, tn.GridSize, tn.Contrast, tn.Brightness)
		if t.notice != "" {
			status += "| " + t.notice + " "
		}
		style := tcell.StyleDefault.Reverse(true)
		x := 0
		for _, r := range status {
			if x >= width {
				break
			}
			t.screen.SetContent(x, height-1, r, nil, style)
			x++
		}
	}
	t.screen.Show()
}

// Run handles terminal events until the screen is finalized. Quit keys call
// cancel.
func (t *Terminal) Run(ctx context.Context, cancel context.CancelFunc) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			t.screen.Sync()
			t.redraw()
		case *tcell.EventKey:
			action, name := KeyAction(ev)
			switch {
			case action == Quit:
				t.logger.Info("quit requested")
				cancel()
			case action == Export:
				t.exportLast()
			case Apply(t.state, action, name):
				tn, _ := t.state.Snapshot()
				t.logger.Debug("tuning changed", "set", tn.Set.Name, "grid", tn.GridSize,
					"contrast", tn.Contrast, "brightness", tn.Brightness)
				t.redraw()
			}
		}

		if ctx.Err() != nil {
			return
		}
	}
}

func (t *Terminal) redraw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.draw()
}

func (t *Terminal) exportLast() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.export == nil {
		return
	}
	path, err := t.export(t.last)
	if err != nil {
		t.logger.Error("could not export frame", "error", err)
		t.notice = "export failed: " + err.Error()
	} else {
		t.logger.Info("exported frame", "file", path)
		t.notice = "saved " + path
	}
	t.draw()
}

// Last returns the most recently published grid.
func (t *Terminal) Last() glyph.Grid {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func (t *Terminal) Close() {
	t.screen.Fini()
}
