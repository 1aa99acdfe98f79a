// Package keys maps GDK key presses to the terminal's shortcut actions.
package keys

import "github.com/gotk3/gotk3/gdk"

// Action is what a shortcut does
type Action int

const (
	None Action = iota // Not a shortcut; deliver to the terminal
	Copy
	Paste
	FontBigger
	FontSmaller
	FontReset
)

func (a Action) String() string {
	switch a {
	case Copy:
		return "copy"
	case Paste:
		return "paste"
	case FontBigger:
		return "font-bigger"
	case FontSmaller:
		return "font-smaller"
	case FontReset:
		return "font-reset"
	default:
		return "none"
	}
}

// relevant masks out lock and pointer-button state
var relevant = uint(gdk.SHIFT_MASK | gdk.CONTROL_MASK | gdk.MOD1_MASK | gdk.SUPER_MASK | gdk.META_MASK)

var (
	ctrl      = uint(gdk.CONTROL_MASK)
	ctrlShift = uint(gdk.CONTROL_MASK | gdk.SHIFT_MASK)
)

// Lookup returns the action bound to keyval under the modifier state.
// Ctrl+Shift+C/V copy and paste so that Ctrl+C and Ctrl+V still reach the
// child; font sizing uses plain Ctrl.
func Lookup(state, keyval uint) Action {
	switch state & relevant {
	case ctrlShift:
		switch keyval {
		case gdk.KEY_C, gdk.KEY_c:
			return Copy
		case gdk.KEY_V, gdk.KEY_v:
			return Paste
		case gdk.KEY_plus: // Shift+= on US layouts
			return FontBigger
		}

	case ctrl:
		switch keyval {
		case gdk.KEY_equal, gdk.KEY_plus, gdk.KEY_Up, gdk.KEY_KP_Add:
			return FontBigger
		case gdk.KEY_minus, gdk.KEY_Down, gdk.KEY_KP_Subtract:
			return FontSmaller
		case gdk.KEY_0, gdk.KEY_KP_0, gdk.KEY_KP_Insert: // KP_Insert is KP_0 with NumLock off
			return FontReset
		}
	}
	return None
}

// MinFontSize is the smallest size FontSmaller produces
const MinFontSize = 1

// ApplyFontSize returns the font size after a sizing action. base is the
// configured size FontReset returns to.
func ApplyFontSize(a Action, current, base int) int {
	switch a {
	case FontBigger:
		return current + 1
	case FontSmaller:
		if current-1 < MinFontSize {
			return current
		}
		return current - 1
	case FontReset:
		return base
	}
	return current
}

// RebaseFontSize carries the zoom in current over from oldBase to newBase,
// so a changed configured size keeps the user's zoom
func RebaseFontSize(current, oldBase, newBase int) int {
	size := newBase + current - oldBase
	if size < MinFontSize {
		return MinFontSize
	}
	return size
}
