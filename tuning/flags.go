package tuning

import (
	"log/slog"

	"asciicam/glyph"
)

// Flags are the command line controls shared by all commands.
type Flags struct {
	CharSet    string `name:"charset" help:"Character set, ordered dark to light." enum:"basic,extended,blocks,minimal" default:"extended" env:"ASCIICAM_CHARSET" group:"tuning"`
	Grid       int    `help:"Cell edge in source pixels (4 to 20)." default:"8" env:"ASCIICAM_GRID" group:"tuning"`
	Contrast   int    `help:"Contrast (50 to 150, 50 is neutral)." default:"100" env:"ASCIICAM_CONTRAST" group:"tuning"`
	Brightness int    `help:"Brightness offset (-50 to 50)." default:"0" env:"ASCIICAM_BRIGHTNESS" group:"tuning"`
	Filter     string `help:"Sampling filter." enum:"nearest,approx-bilinear,bilinear,catmullrom" default:"nearest" env:"ASCIICAM_FILTER" group:"tuning"`
}

// Clamp pulls out-of-range values back into bounds, logging each change.
func (f *Flags) Clamp(logger *slog.Logger) {
	clamp := func(name string, v *int, fn func(int) int) {
		if c := fn(*v); c != *v {
			logger.Warn("value out of range, clamped", "flag", name, "value", *v, "clamped", c)
			*v = c
		}
	}
	clamp("grid", &f.Grid, ClampGrid)
	clamp("contrast", &f.Contrast, ClampContrast)
	clamp("brightness", &f.Brightness, ClampBrightness)
}

// Tuning returns the normalized tuning the flags describe.
func (f *Flags) Tuning() glyph.Tuning {
	set, ok := glyph.Lookup(f.CharSet)
	if !ok {
		set, _ = glyph.Lookup(DefaultSet)
	}
	return Normalize(glyph.Tuning{
		Set:        set,
		GridSize:   f.Grid,
		Contrast:   f.Contrast,
		Brightness: f.Brightness,
	})
}
