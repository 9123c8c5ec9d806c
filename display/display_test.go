package display

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"asciicam/glyph"
	"asciicam/tuning"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestWriterPublish(t *testing.T) {
	var out bytes.Buffer
	w := &Writer{W: &out}
	g := glyph.Grid{Lines: []string{"@@", ".."}}

	if err := w.Publish(g); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got := out.String(); got != "@@\n..\n" {
		t.Errorf("output = %q, want %q", got, "@@\n..\n")
	}
	if w.Last().Height() != 2 {
		t.Errorf("Last() height = %d, want 2", w.Last().Height())
	}

	out.Reset()
	w.Redraw = true
	_ = w.Publish(g)
	if got := out.String(); got != "\x1b[H@@\n..\n" {
		t.Errorf("redraw output = %q", got)
	}
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want Action
		name string
	}{
		{tcell.KeyEscape, 0, Quit, ""},
		{tcell.KeyCtrlC, 0, Quit, ""},
		{tcell.KeyRune, 'q', Quit, ""},
		{tcell.KeyRune, 's', Export, ""},
		{tcell.KeyRune, '3', SelectSet, "blocks"},
		{tcell.KeyRune, '+', GridUp, ""},
		{tcell.KeyRune, '-', GridDown, ""},
		{tcell.KeyRune, ']', ContrastUp, ""},
		{tcell.KeyRune, '[', ContrastDown, ""},
		{tcell.KeyRune, '.', BrightnessUp, ""},
		{tcell.KeyRune, ',', BrightnessDown, ""},
		{tcell.KeyRune, 'C', PrevSet, ""},
		{tcell.KeyTab, 0, NextSet, ""},
		{tcell.KeyRune, 'x', None, ""},
		{tcell.KeyF1, 0, None, ""},
	}

	for _, tt := range tests {
		got, name := KeyAction(tcell.NewEventKey(tt.key, tt.r, tcell.ModNone))
		if got != tt.want || name != tt.name {
			t.Errorf("KeyAction(%v, %q) = %v, %q, want %v, %q", tt.key, tt.r, got, name, tt.want, tt.name)
		}
	}
}

func TestApply(t *testing.T) {
	state := tuning.NewState(tuning.Default())

	Apply(state, GridUp, "")
	Apply(state, ContrastDown, "")
	Apply(state, BrightnessDown, "")
	Apply(state, SelectSet, "minimal")
	got, _ := state.Snapshot()
	if got.GridSize != 9 || got.Contrast != 95 || got.Brightness != -5 || got.Set.Name != "minimal" {
		t.Errorf("tuning = %+v", got)
	}

	if Apply(state, Quit, "") {
		t.Error("Apply(Quit) = true, want false")
	}
	Apply(state, Reset, "")
	if got, _ := state.Snapshot(); got.GridSize != tuning.DefaultGrid {
		t.Errorf("after reset grid = %d, want %d", got.GridSize, tuning.DefaultGrid)
	}
}

func newSimTerminal(t *testing.T, export ExportFunc) (*Terminal, tcell.SimulationScreen, *tuning.State) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	state := tuning.NewState(tuning.Default())
	term, err := NewTerminal(screen, state, export, discard)
	if err != nil {
		t.Fatalf("NewTerminal() error = %v", err)
	}
	screen.SetSize(6, 4)
	t.Cleanup(term.Close)
	return term, screen, state
}

func TestTerminalPublishClips(t *testing.T) {
	term, screen, _ := newSimTerminal(t, nil)
	term.Status = false

	g := glyph.Grid{Lines: []string{"▓▒░ ▓▒░ ", "abcdefgh", "12345678", "ABCDEFGH", "zzzzzzzz"}}
	if err := term.Publish(g); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if r, _, _, _ := screen.GetContent(1, 0); r != '▒' {
		t.Errorf("cell (1, 0) = %q, want '▒'", r)
	}
	if r, _, _, _ := screen.GetContent(5, 3); r != 'F' {
		t.Errorf("cell (5, 3) = %q, want 'F'", r)
	}
	if term.Last().Height() != 5 {
		t.Errorf("Last() height = %d, want 5", term.Last().Height())
	}
}

func TestTerminalStatusRow(t *testing.T) {
	term, screen, _ := newSimTerminal(t, nil)
	screen.SetSize(40, 3)

	_ = term.Publish(glyph.Grid{Lines: []string{"aaa", "bbb", "ccc"}})
	if r, _, _, _ := screen.GetContent(0, 2); r != ' ' {
		t.Errorf("status row starts with %q, want space", r)
	}
	if r, _, _, _ := screen.GetContent(1, 2); r != 'e' {
		t.Errorf("status row = %q, want set name", r)
	}
}

func TestTerminalKeys(t *testing.T) {
	exported := make(chan glyph.Grid, 1)
	export := func(g glyph.Grid) (string, error) {
		exported <- g
		return "out.png", nil
	}
	term, screen, state := newSimTerminal(t, export)
	_ = term.Publish(glyph.Grid{Lines: []string{"ab"}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		term.Run(ctx, cancel)
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 's', tcell.ModNone)

	select {
	case g := <-exported:
		if g.Lines[0] != "ab" {
			t.Errorf("exported grid = %v", g.Lines)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("export key not handled")
	}
	if got, _ := state.Snapshot(); got.GridSize != tuning.DefaultGrid+1 {
		t.Errorf("grid = %d, want %d", got.GridSize, tuning.DefaultGrid+1)
	}

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after quit")
	}
	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Errorf("ctx.Err() = %v, want canceled", ctx.Err())
	}
}
