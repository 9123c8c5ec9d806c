package glyph

import "slices"

// CharSet is an ordered glyph ramp. Index 0 is drawn for the darkest cells
// and the last glyph for the lightest.
type CharSet struct {
	Name   string
	Glyphs []rune
}

func NewCharSet(name, glyphs string) CharSet {
	return CharSet{Name: name, Glyphs: []rune(glyphs)}
}

func (c CharSet) Len() int {
	return len(c.Glyphs)
}

func (c CharSet) String() string {
	return string(c.Glyphs)
}

var (
	Basic    = NewCharSet("basic", "@%#*+=-:. ")
	Extended = NewCharSet("extended", "$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\"^`'. ")
	Blocks   = NewCharSet("blocks", "▓▒░ ")
	Minimal  = NewCharSet("minimal", "■ ")
)

// sets keeps selector order.
var sets = []CharSet{Basic, Extended, Blocks, Minimal}

// SetNames returns the names of the built-in sets in selector order.
func SetNames() []string {
	names := make([]string, len(sets))
	for i, s := range sets {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the built-in set with the given name.
func Lookup(name string) (CharSet, bool) {
	i := slices.IndexFunc(sets, func(s CharSet) bool { return s.Name == name })
	if i < 0 {
		return CharSet{}, false
	}
	return sets[i], true
}

// Next returns the built-in set step positions away from name, wrapping
// around. Unknown names start from the first set.
func Next(name string, step int) CharSet {
	i := max(slices.IndexFunc(sets, func(s CharSet) bool { return s.Name == name }), 0)
	n := len(sets)
	return sets[((i+step)%n+n)%n]
}
