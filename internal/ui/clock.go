package ui

// Block glyphs for the lock screen clock, 5 rows tall.
var bigDigits = map[rune][]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", " ███ "},
	'2': {" ███ ", "█   █", "  ██ ", " █   ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█  █ ", "█  █ ", "█████", "   █ ", "   █ "},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", "  █  "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

var blankDigit = []string{"     ", "     ", "     ", "     ", "     "}

// BigTime renders a clock string (e.g. "13:37") as 5 rows of block
// glyphs. Unknown characters render as blanks.
func BigTime(timestr string) []string {
	lines := make([]string, 5)
	for _, ch := range timestr {
		glyph, ok := bigDigits[ch]
		if !ok {
			glyph = blankDigit
		}
		for i, part := range glyph {
			lines[i] += part + "  "
		}
	}
	return lines
}
