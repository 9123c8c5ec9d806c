package display

import (
	"github.com/gdamore/tcell/v2"

	"asciicam/tuning"
)

// Action is a control decoded from a key press.
type Action int

const (
	None Action = iota
	Quit
	Export
	Reset
	SelectSet
	NextSet
	PrevSet
	GridUp
	GridDown
	ContrastUp
	ContrastDown
	BrightnessUp
	BrightnessDown
)

const (
	gridStep       = 1
	contrastStep   = 5
	brightnessStep = 5
)

// setKeys selects built-in sets in selector order.
var setKeys = map[rune]string{
	'1': "basic",
	'2': "extended",
	'3': "blocks",
	'4': "minimal",
}

// KeyAction decodes ev. For SelectSet the set name is returned as well.
func KeyAction(ev *tcell.EventKey) (Action, string) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Quit, ""
	case tcell.KeyTab:
		return NextSet, ""
	case tcell.KeyBacktab:
		return PrevSet, ""
	case tcell.KeyRune:
	default:
		return None, ""
	}

	r := ev.Rune()
	if name, ok := setKeys[r]; ok {
		return SelectSet, name
	}
	switch r {
	case 'q', 'Q':
		return Quit, ""
	case 's', 'S':
		return Export, ""
	case 'r', 'R':
		return Reset, ""
	case 'c':
		return NextSet, ""
	case 'C':
		return PrevSet, ""
	case '+', '=':
		return GridUp, ""
	case '-', '_':
		return GridDown, ""
	case ']':
		return ContrastUp, ""
	case '[':
		return ContrastDown, ""
	case '.', '>':
		return BrightnessUp, ""
	case ',', '<':
		return BrightnessDown, ""
	}
	return None, ""
}

// Apply performs the tuning part of a and reports whether it was one.
func Apply(state *tuning.State, a Action, name string) bool {
	switch a {
	case SelectSet:
		state.SelectSet(name)
	case NextSet:
		state.CycleSet(1)
	case PrevSet:
		state.CycleSet(-1)
	case GridUp:
		state.AdjustGrid(gridStep)
	case GridDown:
		state.AdjustGrid(-gridStep)
	case ContrastUp:
		state.AdjustContrast(contrastStep)
	case ContrastDown:
		state.AdjustContrast(-contrastStep)
	case BrightnessUp:
		state.AdjustBrightness(brightnessStep)
	case BrightnessDown:
		state.AdjustBrightness(-brightnessStep)
	case Reset:
		state.Reset()
	default:
		return false
	}
	return true
}
