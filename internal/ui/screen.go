package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/myorganisms/internal/theme"
)

// Screen manages the tcell screen and rendering
type Screen struct {
	tcellScreen tcell.Screen
	width       int
	height      int
	Theme       *theme.Theme
}

// NewScreen creates a new Screen on the terminal with the given theme
func NewScreen(t *theme.Theme) (*Screen, error) {
	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return NewScreenFrom(tcellScreen, t)
}

// NewScreenFrom wraps an existing tcell screen, e.g. a simulation screen
// in tests. The screen is initialized here.
func NewScreenFrom(tcellScreen tcell.Screen, t *theme.Theme) (*Screen, error) {
	if err := tcellScreen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	if t == nil {
		t = theme.Default()
	}

	width, height := tcellScreen.Size()
	return &Screen{
		tcellScreen: tcellScreen,
		width:       width,
		height:      height,
		Theme:       t,
	}, nil
}

// Close closes the screen
func (s *Screen) Close() error {
	s.tcellScreen.Fini()
	return nil
}

// Clear clears the entire screen
func (s *Screen) Clear() {
	s.tcellScreen.Clear()
}

// SetCell sets a cell at the given position
func (s *Screen) SetCell(x, y int, r rune, style tcell.Style) {
	if x >= 0 && x < s.width && y >= 0 && y < s.height {
		s.tcellScreen.SetContent(x, y, r, nil, style)
	}
}

// DrawString draws a string at the given position and returns the column
// after the last drawn cell. Wide runes take two columns.
func (s *Screen) DrawString(x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		w := RuneWidth(r)
		if w == 0 {
			continue
		}
		s.SetCell(x, y, r, style)
		x += w
	}
	return x
}

// DrawStringLimited draws a string, truncating it to maxWidth columns
func (s *Screen) DrawStringLimited(x, y int, text string, maxWidth int, style tcell.Style) int {
	if maxWidth <= 0 {
		return x
	}
	return s.DrawString(x, y, TruncateToWidthWithEllipsis(text, maxWidth), style)
}

// FillLine paints columns [x, x+width) of row y with spaces
func (s *Screen) FillLine(x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		s.SetCell(x+i, y, ' ', style)
	}
}

// PollEvent polls for the next event (key press, mouse, etc.)
func (s *Screen) PollEvent() tcell.Event {
	return s.tcellScreen.PollEvent()
}

// PostEvent queues an event for PollEvent; used to wake up the event loop
func (s *Screen) PostEvent(ev tcell.Event) error {
	return s.tcellScreen.PostEvent(ev)
}

// Show shows the screen
func (s *Screen) Show() {
	s.tcellScreen.Show()
}

// Sync refreshes the size after a resize
func (s *Screen) Sync() {
	s.tcellScreen.Sync()
	s.width, s.height = s.tcellScreen.Size()
}

// Size returns the width and height of the screen
func (s *Screen) Size() (int, int) {
	s.width, s.height = s.tcellScreen.Size()
	return s.width, s.height
}

// GetWidth returns the width of the screen
func (s *Screen) GetWidth() int {
	s.width, _ = s.tcellScreen.Size()
	return s.width
}

// GetHeight returns the height of the screen
func (s *Screen) GetHeight() int {
	_, s.height = s.tcellScreen.Size()
	return s.height
}

// EnableMouse enables mouse support on the screen
func (s *Screen) EnableMouse() {
	s.tcellScreen.EnableMouse()
}

// Theme-aware styles

func (s *Screen) colors() *theme.Colors {
	return &s.Theme.Colors
}

// TreeNormalStyle returns the style for normal tree rows
func (s *Screen) TreeNormalStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().TreeNormalText)
}

// TreeCursorStyle returns the style for the row under the cursor
func (s *Screen) TreeCursorStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().TreeCursor).Reverse(true).Bold(true)
}

// TreeArrowStyle returns the style for expand/collapse arrows
func (s *Screen) TreeArrowStyle(expanded bool) tcell.Style {
	if expanded {
		return theme.ColorToStyle(s.colors().TreeExpandedArrow)
	}
	return theme.ColorToStyle(s.colors().TreeCollapsedArrow)
}

// CheckboxStyle returns the style for a checkbox in the given state
func (s *Screen) CheckboxStyle(state string) tcell.Style {
	switch state {
	case "all":
		return theme.ColorToStyle(s.colors().CheckboxChecked).Bold(true)
	case "some":
		return theme.ColorToStyle(s.colors().CheckboxPartial)
	default:
		return theme.ColorToStyle(s.colors().CheckboxEmpty)
	}
}

// ReferenceBadgeStyle returns the style for the reference strain badge
func (s *Screen) ReferenceBadgeStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().ReferenceBadge).Italic(true)
}

// LinkStyle returns the style for the tree links row
func (s *Screen) LinkStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().TreeLink).Underline(true)
}

// SearchLabelStyle returns the style for search label
func (s *Screen) SearchLabelStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().SearchLabel)
}

// SearchTextStyle returns the style for search text
func (s *Screen) SearchTextStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().SearchText)
}

// SearchPlaceholderStyle returns the style for the empty search box hint
func (s *Screen) SearchPlaceholderStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().SearchPlaceholder).Italic(true)
}

// SearchCursorStyle returns the style for search cursor
func (s *Screen) SearchCursorStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().SearchCursor).Reverse(true)
}

// HeaderStyle returns the style for screen and section titles
func (s *Screen) HeaderStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().HeaderTitle).Bold(true)
}

// CountStyle returns the style for an "(N of M)" count. A zero count is
// drawn with the empty count color.
func (s *Screen) CountStyle(n int) tcell.Style {
	if n == 0 {
		return theme.ColorToStyle(s.colors().EmptyCount).Bold(true)
	}
	return theme.ColorToStyle(s.colors().HeaderCount)
}

// InstructionsStyle returns the style for explanatory text
func (s *Screen) InstructionsStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().Instructions)
}

// AdvisoryStyle returns the style for advisory messages
func (s *Screen) AdvisoryStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().Advisory).Bold(true)
}

// SummaryLinkStyle returns the style for the preferences link
func (s *Screen) SummaryLinkStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().SummaryLink).Underline(true)
}

// ToggleStyle returns the style for the enabled/disabled toggle
func (s *Screen) ToggleStyle(enabled bool) tcell.Style {
	if enabled {
		return theme.ColorToStyle(s.colors().ToggleEnabled).Bold(true)
	}
	return theme.ColorToStyle(s.colors().ToggleDisabled)
}

// BannerStyle returns the style for the new organisms banner
func (s *Screen) BannerStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().BannerText, s.colors().BannerBackground)
}

// CommandPromptStyle returns the style for command prompt
func (s *Screen) CommandPromptStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().CommandPrompt)
}

// CommandTextStyle returns the style for command text
func (s *Screen) CommandTextStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().CommandText)
}

// CommandCursorStyle returns the style for command cursor
func (s *Screen) CommandCursorStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().CommandCursor).Reverse(true)
}

// HelpStyle returns the style for help background
func (s *Screen) HelpStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().HelpContent, s.colors().HelpBackground)
}

// HelpBorderStyle returns the style for help borders
func (s *Screen) HelpBorderStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().HelpBorder, s.colors().HelpBackground)
}

// HelpTitleStyle returns the style for help title
func (s *Screen) HelpTitleStyle() tcell.Style {
	return theme.ColorPairToStyle(s.colors().HelpTitle, s.colors().HelpBackground).Bold(true)
}

// StatusModeStyle returns the style for the route indicator
func (s *Screen) StatusModeStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().StatusMode).Reverse(true).Bold(true)
}

// StatusMessageStyle returns the style for status messages
func (s *Screen) StatusMessageStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().StatusMessage)
}

// StatusModifiedStyle returns the style for the unsaved changes marker
func (s *Screen) StatusModifiedStyle() tcell.Style {
	return theme.ColorToStyle(s.colors().StatusModified).Bold(true)
}
