package host

import "unicode"

// Layout lists the host keys of the keypad row by row. Keypad holds the
// CHIP-8 key for each position of Layout.
//
//	+--------+--------+--------+--------+
//	| 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
//	+--------+--------+--------+--------+
//	| Q -> 4 | W -> 5 | E -> 6 | R -> D |
//	+--------+--------+--------+--------+
//	| A -> 7 | S -> 8 | D -> 9 | F -> E |
//	+--------+--------+--------+--------+
//	| Z -> A | X -> 0 | C -> B | V -> F |
//	+--------+--------+--------+--------+
const Layout = "1234QWERASDFZXCV"

// Keypad maps a position in Layout to a CHIP-8 key.
var Keypad = [len(Layout)]uint8{
	0x1, 0x2, 0x3, 0xC,
	0x4, 0x5, 0x6, 0xD,
	0x7, 0x8, 0x9, 0xE,
	0xA, 0x0, 0xB, 0xF,
}

// KeyForRune returns the CHIP-8 key for a host key character. Letters are
// matched case-insensitively.
func KeyForRune(r rune) (uint8, bool) {
	r = unicode.ToUpper(r)
	for i, c := range Layout {
		if c == r {
			return Keypad[i], true
		}
	}
	return 0, false
}
