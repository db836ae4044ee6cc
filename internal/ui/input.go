package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// lineInput is a single line text buffer with a byte-offset cursor, shared
// by the command line and the search box.
type lineInput struct {
	input     string
	cursorPos int
}

func (l *lineInput) set(s string) {
	l.input = s
	l.cursorPos = len(s)
}

func (l *lineInput) deleteWordBackwards() {
	if l.cursorPos == 0 {
		return
	}
	pos := l.cursorPos - 1
	for pos >= 0 && (l.input[pos] == ' ' || l.input[pos] == '\t') {
		pos--
	}
	for pos >= 0 && l.input[pos] != ' ' && l.input[pos] != '\t' {
		pos--
	}
	start := pos + 1
	l.input = l.input[:start] + l.input[l.cursorPos:]
	l.cursorPos = start
}

// handleEditKey applies an editing key and reports whether it was one
func (l *lineInput) handleEditKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlW:
		l.deleteWordBackwards()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if l.cursorPos > 0 {
			_, size := utf8.DecodeLastRuneInString(l.input[:l.cursorPos])
			l.input = l.input[:l.cursorPos-size] + l.input[l.cursorPos:]
			l.cursorPos -= size
		}
	case tcell.KeyDelete:
		if l.cursorPos < len(l.input) {
			_, size := utf8.DecodeRuneInString(l.input[l.cursorPos:])
			l.input = l.input[:l.cursorPos] + l.input[l.cursorPos+size:]
		}
	case tcell.KeyLeft:
		if l.cursorPos > 0 {
			_, size := utf8.DecodeLastRuneInString(l.input[:l.cursorPos])
			l.cursorPos -= size
		}
	case tcell.KeyRight:
		if l.cursorPos < len(l.input) {
			_, size := utf8.DecodeRuneInString(l.input[l.cursorPos:])
			l.cursorPos += size
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		l.cursorPos = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		l.cursorPos = len(l.input)
	case tcell.KeyCtrlU:
		l.input = l.input[l.cursorPos:]
		l.cursorPos = 0
	case tcell.KeyCtrlK:
		l.input = l.input[:l.cursorPos]
	case tcell.KeyRune:
		s := string(ev.Rune())
		l.input = l.input[:l.cursorPos] + s + l.input[l.cursorPos:]
		l.cursorPos += len(s)
	default:
		return false
	}
	return true
}

// render draws the buffer at x and returns the next free column. The cursor
// cell is drawn only when showCursor is set.
func (l *lineInput) render(screen *Screen, x, y, maxX int, textStyle, cursorStyle tcell.Style, showCursor bool) int {
	for i, r := range l.input {
		if x >= maxX {
			return x
		}
		style := textStyle
		if showCursor && i == l.cursorPos {
			style = cursorStyle
		}
		screen.SetCell(x, y, r, style)
		x += max(RuneWidth(r), 1)
	}
	if showCursor && l.cursorPos >= len(l.input) && x < maxX {
		screen.SetCell(x, y, ' ', cursorStyle)
		x++
	}
	return x
}

func (l *lineInput) text() string {
	return strings.TrimSpace(l.input)
}
