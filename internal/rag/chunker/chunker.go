package chunker

import "unicode/utf8"

// Piece is one fixed-size window of the input text together with the byte
// offset it starts at.
type Piece struct {
	Text  string
	Start int
}

// Split slices text into overlapping windows: the window starting at offset 0
// covers text[0:window], the next starts window-overlap bytes later, and so
// on until the whole text is covered. Window boundaries snap back to the
// nearest rune start so a multibyte character is never cut in half. Empty
// text yields no pieces; text that fits in one window yields exactly one. An
// overlap >= window would stall the loop, so it is clamped down instead of
// trusted.
func Split(text string, window, overlap int) []Piece {
	if len(text) == 0 {
		return nil
	}
	if window <= 0 {
		window = 1
	}
	if overlap >= window {
		overlap = window - 1
	}
	if overlap < 0 {
		overlap = 0
	}

	var pieces []Piece
	step := window - overlap
	for start := 0; ; {
		end := start + window
		if end >= len(text) {
			pieces = append(pieces, Piece{Text: text[start:], Start: start})
			return pieces
		}
		end = snapToRuneStart(text, end)
		if end <= start {
			_, size := utf8.DecodeRuneInString(text[start:])
			end = start + size
		}
		pieces = append(pieces, Piece{Text: text[start:end], Start: start})

		next := snapToRuneStart(text, start+step)
		if next <= start {
			_, size := utf8.DecodeRuneInString(text[start:])
			next = start + size
		}
		start = next
	}
}

// snapToRuneStart moves i back to the beginning of the rune it points into.
func snapToRuneStart(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
