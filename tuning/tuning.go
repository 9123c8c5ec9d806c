// Package tuning validates and holds the user controls of a session.
package tuning

import (
	"sync"

	"asciicam/glyph"
)

const (
	MinGrid       = 4
	MaxGrid       = 20
	MinContrast   = 50
	MaxContrast   = 150
	MinBrightness = -50
	MaxBrightness = 50

	DefaultSet        = "extended"
	DefaultGrid       = 8
	DefaultContrast   = 100
	DefaultBrightness = 0
)

func Default() glyph.Tuning {
	set, _ := glyph.Lookup(DefaultSet)
	return glyph.Tuning{
		Set:        set,
		GridSize:   DefaultGrid,
		Contrast:   DefaultContrast,
		Brightness: DefaultBrightness,
	}
}

func ClampGrid(v int) int {
	return min(max(v, MinGrid), MaxGrid)
}

func ClampContrast(v int) int {
	return min(max(v, MinContrast), MaxContrast)
}

func ClampBrightness(v int) int {
	return min(max(v, MinBrightness), MaxBrightness)
}

// Normalize clamps every control to its bounds. An empty character set is
// replaced by the default set.
func Normalize(t glyph.Tuning) glyph.Tuning {
	if t.Set.Len() == 0 {
		t.Set, _ = glyph.Lookup(DefaultSet)
	}
	t.GridSize = ClampGrid(t.GridSize)
	t.Contrast = ClampContrast(t.Contrast)
	t.Brightness = ClampBrightness(t.Brightness)
	return t
}

// State is the session-wide tuning value. It is written by control events and
// read once per frame.
type State struct {
	mu      sync.RWMutex
	value   glyph.Tuning
	version uint64
}

func NewState(initial glyph.Tuning) *State {
	return &State{value: Normalize(initial)}
}

// Snapshot returns a copy of the current tuning and its version.
func (s *State) Snapshot() (glyph.Tuning, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, s.version
}

// Update applies fn and normalizes the result.
func (s *State) Update(fn func(*glyph.Tuning)) glyph.Tuning {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.value
	fn(&next)
	next = Normalize(next)
	if !equal(next, s.value) {
		s.value = next
		s.version++
	}
	return s.value
}

// SelectSet switches to the named built-in set. Unknown names are ignored.
func (s *State) SelectSet(name string) (glyph.Tuning, bool) {
	set, ok := glyph.Lookup(name)
	if !ok {
		t, _ := s.Snapshot()
		return t, false
	}
	return s.Update(func(t *glyph.Tuning) { t.Set = set }), true
}

func (s *State) CycleSet(step int) glyph.Tuning {
	return s.Update(func(t *glyph.Tuning) { t.Set = glyph.Next(t.Set.Name, step) })
}

func (s *State) AdjustGrid(delta int) glyph.Tuning {
	return s.Update(func(t *glyph.Tuning) { t.GridSize += delta })
}

func (s *State) AdjustContrast(delta int) glyph.Tuning {
	return s.Update(func(t *glyph.Tuning) { t.Contrast += delta })
}

func (s *State) AdjustBrightness(delta int) glyph.Tuning {
	return s.Update(func(t *glyph.Tuning) { t.Brightness += delta })
}

func (s *State) Reset() glyph.Tuning {
	return s.Update(func(t *glyph.Tuning) { *t = Default() })
}

func equal(a, b glyph.Tuning) bool {
	return a.Set.Name == b.Set.Name && a.Set.String() == b.Set.String() &&
		a.GridSize == b.GridSize && a.Contrast == b.Contrast && a.Brightness == b.Brightness
}
