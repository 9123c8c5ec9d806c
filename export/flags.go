package export

import (
	"fmt"
	"path/filepath"
)

// Flags configure image export from the command line.
type Flags struct {
	Dir        string  `help:"Folder exported images are written to." default:"." env:"ASCIICAM_EXPORT_DIR" group:"export"`
	Format     string  `help:"Exported image format." enum:"png,gif,jpeg,bmp,tiff" default:"png" group:"export"`
	FontSize   float64 `help:"Font size in pixels." default:"12" group:"export"`
	LineHeight float64 `help:"Line height in pixels, derived from the font size when 0." default:"0" group:"export"`
	Padding    int     `help:"Padding around the text in pixels." default:"20" group:"export"`
	Fg         string  `help:"Text color (#RGB, #RGBA, #RRGGBB or #RRGGBBAA)." default:"#000000" group:"export"`
	Bg         string  `help:"Background color." default:"#ffffff" group:"export"`
	Font       string  `help:"TrueType or OpenType font file, Go Mono when empty." type:"path" group:"export"`
}

// Exporter validates the flags and builds an Exporter from them.
func (f *Flags) Exporter() (*Exporter, error) {
	opts := Options{
		FontSize:   f.FontSize,
		LineHeight: f.LineHeight,
		Padding:    f.Padding,
	}

	var err error
	if opts.Foreground, err = ParseHexColor(f.Fg); err != nil {
		return nil, fmt.Errorf("invalid text color: %w", err)
	}
	if opts.Background, err = ParseHexColor(f.Bg); err != nil {
		return nil, fmt.Errorf("invalid background color: %w", err)
	}
	if f.Font != "" {
		if opts.Font, err = LoadFont(f.Font); err != nil {
			return nil, err
		}
	}

	dir, err := filepath.Abs(f.Dir)
	if err != nil {
		return nil, fmt.Errorf("invalid export path %q: %w", f.Dir, err)
	}

	return &Exporter{Dir: dir, Format: f.Format, Options: opts}, nil
}
