package export

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"asciicam/glyph"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"#0a08", color.NRGBA{0x00, 0xaa, 0x00, 0x88}},
		{"#102030", color.NRGBA{0x10, 0x20, 0x30, 0xff}},
		{"#10203040", color.NRGBA{0x10, 0x20, 0x30, 0x40}},
	}

	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Errorf("ParseHexColor(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"fff", "#ff", "#12345", "#zzz"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) error = nil, want error", bad)
		}
	}
}

func TestSize(t *testing.T) {
	grid := glyph.Grid{Lines: []string{"abcdefghij", "abcdefghij", "abcdefghij"}}
	opts := Options{FontSize: 10, LineHeight: 12, Padding: 20}

	got := Size(grid, opts)
	if want := image.Pt(10*10*6/10+40, 3*12+40); got != want {
		t.Errorf("Size() = %v, want %v", got, want)
	}
}

func TestRender(t *testing.T) {
	grid := glyph.Grid{Lines: []string{"@@@@", "@@@@"}}
	opts := Options{
		FontSize:   16,
		Padding:    4,
		Foreground: color.White,
		Background: color.Black,
	}

	img, err := Render(grid, opts)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got, want := img.Bounds().Size(), Size(grid, opts); got != want {
		t.Errorf("Render() size = %v, want %v", got, want)
	}

	if c := img.RGBAAt(0, 0); c.R != 0 || c.A != 255 {
		t.Errorf("padding pixel = %v, want opaque black", c)
	}

	lit := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 128 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("Render() drew no glyph pixels")
	}
}

func TestRenderEmptyGrid(t *testing.T) {
	if _, err := Render(glyph.Grid{}, DefaultOptions()); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("Render() error = %v, want ErrEmptyGrid", err)
	}
}

func TestRenderBadFont(t *testing.T) {
	opts := DefaultOptions()
	opts.Font = []byte("not a font")
	if _, err := Render(glyph.Grid{Lines: []string{"x"}}, opts); err == nil {
		t.Error("Render() with bad font error = nil, want error")
	}
}

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	if got, want := FileName(ts, "png"), "ascii-art-2024-03-09T14-05-07.png"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}

	local := ts.In(time.FixedZone("UTC+2", 2*60*60))
	if got, want := FileName(local, "png"), "ascii-art-2024-03-09T14-05-07.png"; got != want {
		t.Errorf("FileName() in a non-UTC zone = %q, want %q", got, want)
	}
}

func TestExporter(t *testing.T) {
	dir := t.TempDir()
	e := &Exporter{
		Dir:     dir,
		Options: DefaultOptions(),
		Now:     func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	}

	path, err := e.Export(glyph.Grid{Lines: []string{"#+. ", " .+#"}})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if want := filepath.Join(dir, "ascii-art-2024-01-02T03-04-05.png"); path != want {
		t.Errorf("Export() path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("exported file is not a PNG: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("export left %d files, want 1", len(entries))
	}
}

func TestSaveFormats(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	dir := t.TempDir()

	for _, format := range Formats {
		path, err := Save(img, dir, "frame."+format, format)
		if err != nil {
			t.Errorf("Save(%s) error = %v", format, err)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Save(%s) did not create %q: %v", format, path, err)
		}
	}
}

func TestSaveUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path, err := Save(image.NewRGBA(image.Rect(0, 0, 1, 1)), dir, "frame.xyz", "xyz")
	if err == nil {
		t.Fatal("Save(xyz) error = nil, want error")
	}
	if path != "" {
		t.Errorf("Save(xyz) path = %q, want empty", path)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("Save(xyz) left %d files behind", len(entries))
	}
}

func TestFlagsExporter(t *testing.T) {
	dir := t.TempDir()
	f := Flags{Dir: dir, Format: "bmp", FontSize: 10, Padding: 4, Fg: "#0f0", Bg: "#000000ff"}
	e, err := f.Exporter()
	if err != nil {
		t.Fatalf("Exporter() error = %v", err)
	}
	if e.Dir != dir || e.Format != "bmp" {
		t.Errorf("Exporter() = %+v", e)
	}
	if e.Options.Foreground != (color.NRGBA{G: 0xff, A: 0xff}) {
		t.Errorf("Foreground = %v", e.Options.Foreground)
	}

	f.Bg = "black"
	if _, err := f.Exporter(); err == nil {
		t.Error("Exporter() with bad background error = nil")
	}
}
