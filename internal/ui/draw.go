package ui

import "github.com/gdamore/tcell/v2"

// DrawText draws a string at (x, y), clipping at the screen edges. A
// resize mid-frame just truncates this one element; the loop carries on.
func DrawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	w, h := s.Size()
	if y < 0 || y >= h {
		return
	}
	for i, r := range []rune(text) {
		xx := x + i
		if xx < 0 {
			continue
		}
		if xx >= w {
			break
		}
		s.SetContent(xx, y, r, nil, style)
	}
}

// DrawTextCentered draws text horizontally centered on row y.
func DrawTextCentered(s tcell.Screen, y int, text string, style tcell.Style) {
	w, _ := s.Size()
	DrawText(s, (w-len([]rune(text)))/2, y, text, style)
}

// DrawMaskedLines draws a block of lines with a per-cell visibility mask.
// Cells whose mask reports false are skipped entirely, producing the
// dissolve effect when the mask is threshold-driven.
func DrawMaskedLines(s tcell.Screen, x, y int, lines []string, visible func(row, col int) bool, style tcell.Style) {
	w, h := s.Size()
	for r, line := range lines {
		yy := y + r
		if yy < 0 || yy >= h {
			continue
		}
		for c, ch := range []rune(line) {
			if !visible(r, c) {
				continue
			}
			xx := x + c
			if xx < 0 || xx >= w {
				continue
			}
			s.SetContent(xx, yy, ch, nil, style)
		}
	}
}

// CenterOf computes the top-left position that centers a block of lines,
// plus the block dimensions.
func CenterOf(s tcell.Screen, lines []string) (x, y, textW, textH int) {
	w, h := s.Size()
	textH = len(lines)
	for _, line := range lines {
		if n := len([]rune(line)); n > textW {
			textW = n
		}
	}
	x = (w - textW) / 2
	if x < 0 {
		x = 0
	}
	y = (h - textH) / 2
	if y < 0 {
		y = 0
	}
	return x, y, textW, textH
}
