package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/myorganisms/internal/history"
	"github.com/pstuifzand/myorganisms/internal/refstrain"
)

// SearchHelpText explains the search syntax for the named target
func SearchHelpText(target string) string {
	return fmt.Sprintf("Type words to filter %s; every word must match. "+
		"Prefix a word with ~ for a fuzzy match, or type %q to find reference strains.",
		target, refstrain.ReferenceKeyword)
}

// SearchBox is a single line filter input. The query is split into terms
// on whitespace.
type SearchBox struct {
	line        lineInput
	focused     bool
	placeholder string
	helpText    string
	history     *History
}

// NewSearchBox creates a search box. manager may be nil.
func NewSearchBox(placeholder, helpText string, manager *history.Manager) *SearchBox {
	return &SearchBox{
		placeholder: placeholder,
		helpText:    helpText,
		history:     NewHistoryWithManager(50, manager, history.SearchFile),
	}
}

// Focus gives the search box keyboard focus
func (s *SearchBox) Focus() {
	s.focused = true
	s.history.Reset()
}

// Blur removes keyboard focus, keeping the query
func (s *SearchBox) Blur() {
	s.focused = false
}

// IsFocused reports whether the box receives keys
func (s *SearchBox) IsFocused() bool {
	return s.focused
}

// Query returns the trimmed query
func (s *SearchBox) Query() string {
	return s.line.text()
}

// SetQuery replaces the query
func (s *SearchBox) SetQuery(q string) {
	s.line.set(q)
}

// Terms returns the query split into search terms
func (s *SearchBox) Terms() []string {
	return refstrain.SplitTerms(s.line.input)
}

// HandleKey processes a key while focused. changed is set when the query
// changed.
func (s *SearchBox) HandleKey(ev *tcell.EventKey) (changed bool) {
	before := s.line.input
	switch ev.Key() {
	case tcell.KeyEscape:
		if s.line.input == "" {
			s.Blur()
		} else {
			s.line = lineInput{}
		}
	case tcell.KeyEnter, tcell.KeyTab, tcell.KeyDown:
		s.history.Add(s.Query())
		s.Blur()
	case tcell.KeyUp:
		s.history.navigate(&s.line, true)
	case tcell.KeyCtrlN:
		s.history.navigate(&s.line, false)
	default:
		s.line.handleEditKey(ev)
	}
	return s.line.input != before
}

// Height is the number of rows Render uses
func (s *SearchBox) Height() int {
	if s.focused && s.helpText != "" {
		return 2
	}
	return 1
}

// Render draws the box at (x, y) within width columns
func (s *SearchBox) Render(screen *Screen, x, y, width int) {
	maxX := x + width
	screen.FillLine(x, y, width, tcell.StyleDefault)

	cx := screen.DrawString(x, y, "Search: ", screen.SearchLabelStyle())
	if s.line.input == "" && !s.focused {
		screen.DrawStringLimited(cx, y, s.placeholder, maxX-cx, screen.SearchPlaceholderStyle())
	} else {
		cx = s.line.render(screen, cx, y, maxX, screen.SearchTextStyle(), screen.SearchCursorStyle(), s.focused)
		if s.line.input == "" {
			screen.DrawStringLimited(cx, y, s.placeholder, maxX-cx, screen.SearchPlaceholderStyle())
		}
	}

	if s.Height() > 1 {
		screen.FillLine(x, y+1, width, tcell.StyleDefault)
		screen.DrawStringLimited(x, y+1, s.helpText, width, screen.InstructionsStyle())
	}
}

