package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Display width helpers. All widths are screen columns, not bytes.

// RuneWidth returns the display width of a single rune. Control and
// combining characters are zero wide.
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		return 0
	}
	return w
}

// StringWidth returns the display width of a string
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth truncates a string to fit within maxWidth columns without
// splitting wide characters.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "")
}

// TruncateToWidthWithEllipsis truncates a string and marks the cut with "…"
func TruncateToWidthWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 1 {
		return TruncateToWidth(s, maxWidth)
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// PadStringToWidth pads a string to a specific display width with spaces
func PadStringToWidth(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// WrapText breaks text into lines of at most width columns, preferring to
// break at spaces.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		ww := StringWidth(word)
		if lineWidth > 0 && lineWidth+1+ww > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		for ww > width {
			// A single word longer than the line is split hard
			head := TruncateToWidth(word, width)
			if lineWidth > 0 {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			lines = append(lines, head)
			word = word[len(head):]
			ww = StringWidth(word)
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += ww
	}
	if lineWidth > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
