package export

import (
	"fmt"
	"image/color"
	"strings"
)

// ParseHexColor reads #RGB, #RGBA, #RRGGBB or #RRGGBBAA.
func ParseHexColor(s string) (color.Color, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return nil, fmt.Errorf("invalid color %q, should start with #", s)
	}

	var c color.NRGBA
	var n int
	var err error
	switch len(hex) {
	case 3:
		n, err = fmt.Sscanf(hex, "%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A = 0xFF
	case 4:
		n, err = fmt.Sscanf(hex, "%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		c.A |= c.A << 4
	case 6:
		n, err = fmt.Sscanf(hex, "%2x%2x%2x", &c.R, &c.G, &c.B)
		c.A = 0xFF
	case 8:
		n, err = fmt.Sscanf(hex, "%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		return nil, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	if err != nil {
		return nil, fmt.Errorf("could not read color %q: %w", s, err)
	}
	if n < 3 {
		return nil, fmt.Errorf("insufficient color fields in %q: %d", s, n)
	}
	return c, nil
}
