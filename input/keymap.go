package input

import "github.com/nsf/termbox-go"

// translateTermboxEvent maps a termbox key event onto one of package
// keyboard's host key-code strings. ok is false for events this driver
// doesn't have a mapping for.
//
// Termbox hands us either a printable rune (ev.Ch) or a named special key
// (ev.Key); it does not report modifier keys (Shift, Ctrl) as distinct
// key-down events of their own, so a shifted character arrives already
// transformed (e.g. 'A' rather than 'a'+Shift) and is mapped to its base
// physical key — the MSX BIOS's own shift handling is bypassed for
// uppercase letters typed this way, a limitation inherent to terminal
// keyboard input rather than something this driver can work around.
func translateTermboxEvent(ev termbox.Event) (string, bool) {
	if ev.Ch != 0 {
		if code, ok := runeKeys[lowerRune(ev.Ch)]; ok {
			return code, true
		}
		return "", false
	}

	code, ok := specialKeys[ev.Key]
	return code, ok
}

func lowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

var runeKeys = map[rune]string{
	'a': "KeyA", 'b': "KeyB", 'c': "KeyC", 'd': "KeyD", 'e': "KeyE",
	'f': "KeyF", 'g': "KeyG", 'h': "KeyH", 'i': "KeyI", 'j': "KeyJ",
	'k': "KeyK", 'l': "KeyL", 'm': "KeyM", 'n': "KeyN", 'o': "KeyO",
	'p': "KeyP", 'q': "KeyQ", 'r': "KeyR", 's': "KeyS", 't': "KeyT",
	'u': "KeyU", 'v': "KeyV", 'w': "KeyW", 'x': "KeyX", 'y': "KeyY",
	'z': "KeyZ",
	'0': "Digit0", '1': "Digit1", '2': "Digit2", '3': "Digit3", '4': "Digit4",
	'5': "Digit5", '6': "Digit6", '7': "Digit7", '8': "Digit8", '9': "Digit9",
	'-': "Minus", '=': "Equal", '\\': "Backslash", '[': "OpenBracket",
	']': "CloseBracket", ';': "Semicolon", '\'': "Quote", '`': "Backquote",
	',': "Comma", '.': "Period", '/': "Slash",
}

var specialKeys = map[termbox.Key]string{
	termbox.KeySpace:      "Space",
	termbox.KeyEnter:      "Enter",
	termbox.KeyBackspace:  "Backspace",
	termbox.KeyBackspace2: "Backspace",
	termbox.KeyTab:        "Tab",
	termbox.KeyEsc:        "Escape",
	termbox.KeyArrowUp:    "ArrowUp",
	termbox.KeyArrowDown:  "ArrowDown",
	termbox.KeyArrowLeft:  "ArrowLeft",
	termbox.KeyArrowRight: "ArrowRight",
	termbox.KeyF1:         "F1",
	termbox.KeyF2:         "F2",
	termbox.KeyF3:         "F3",
	termbox.KeyF4:         "F4",
	termbox.KeyF5:         "F5",
	termbox.KeyInsert:     "Insert",
	termbox.KeyDelete:     "Delete",
	termbox.KeyHome:       "Home",
}
