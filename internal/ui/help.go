package ui

import (
	"fmt"
	"sort"
)

// KeyBindingInfo represents a keybinding for display
type KeyBindingInfo interface {
	GetKey() rune
	GetDescription() string
}

// PendingKeyBindingInfo is a prefix key followed by a second key
type PendingKeyBindingInfo interface {
	KeyBindingInfo
	GetSequences() map[rune]string
}

// treeKeys documents the keys handled by the tree widgets
var treeKeys = []string{
	"  j/k, ↑/↓   - Move cursor",
	"  h/l, ←/→   - Collapse / expand, or go to parent / child",
	"  Enter      - Expand or collapse",
	"  Space, x   - Check or uncheck (preferences screen)",
	"  a / n      - Select all / clear all",
	"  E / C      - Expand all / collapse all",
	"  /          - Search, Esc clears the search",
	"  Tab        - Switch between the tree and the preview",
}

var commandHelp = []string{
	"  :save             - Save the preferences being edited",
	"  :reset            - Discard unsaved edits",
	"  :toggle           - Enable or disable My Organisms",
	"  :go <path>        - Open / or /preferred-organisms",
	"  :messages         - Show recent status messages",
	"  :q                - Quit",
}

// HelpScreen manages the help display
type HelpScreen struct {
	visible     bool
	keybindings []KeyBindingInfo
	offset      int
}

// NewHelpScreen creates a new HelpScreen
func NewHelpScreen() *HelpScreen {
	return &HelpScreen{}
}

// SetKeybindings sets the keybindings to display
func (h *HelpScreen) SetKeybindings(keybindings []KeyBindingInfo) {
	h.keybindings = keybindings
}

// Toggle toggles the help screen visibility
func (h *HelpScreen) Toggle() {
	h.visible = !h.visible
	h.offset = 0
}

// IsVisible returns whether the help screen is visible
func (h *HelpScreen) IsVisible() bool {
	return h.visible
}

// Scroll moves the help text by delta lines
func (h *HelpScreen) Scroll(delta int) {
	h.offset = max(h.offset+delta, 0)
}

// Lines returns the help text
func (h *HelpScreen) Lines() []string {
	result := []string{"Keybindings:", ""}

	for _, kb := range h.keybindings {
		result = append(result, fmt.Sprintf("  %c          - %s", kb.GetKey(), kb.GetDescription()))
		if pkb, ok := kb.(PendingKeyBindingInfo); ok {
			sequences := pkb.GetSequences()
			keys := make([]rune, 0, len(sequences))
			for k := range sequences {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
			for _, k := range keys {
				result = append(result, fmt.Sprintf("  %c%c         - %s", pkb.GetKey(), k, sequences[k]))
			}
		}
	}

	result = append(result, "", "Trees:")
	result = append(result, treeKeys...)
	result = append(result, "", "Commands:")
	result = append(result, commandHelp...)
	return result
}

// Render renders the help screen
func (h *HelpScreen) Render(screen *Screen) {
	if !h.visible {
		return
	}

	contentStyle := screen.HelpStyle()
	borderStyle := screen.HelpBorderStyle()
	width, height := screen.Size()

	for y := 0; y < height; y++ {
		screen.FillLine(0, y, width, contentStyle)
	}

	startX, startY := 2, 1
	boxWidth := width - 4
	boxHeight := height - 2
	if boxWidth < 10 || boxHeight < 5 {
		return
	}
	right := startX + boxWidth - 1
	bottom := startY + boxHeight - 1

	for x := startX + 1; x < right; x++ {
		screen.SetCell(x, startY, '─', borderStyle)
		screen.SetCell(x, startY+2, '─', borderStyle)
		screen.SetCell(x, bottom, '─', borderStyle)
	}
	for y := startY + 1; y < bottom; y++ {
		screen.SetCell(startX, y, '│', borderStyle)
		screen.SetCell(right, y, '│', borderStyle)
	}
	screen.SetCell(startX, startY, '┌', borderStyle)
	screen.SetCell(right, startY, '┐', borderStyle)
	screen.SetCell(startX, startY+2, '├', borderStyle)
	screen.SetCell(right, startY+2, '┤', borderStyle)
	screen.SetCell(startX, bottom, '└', borderStyle)
	screen.SetCell(right, bottom, '┘', borderStyle)

	screen.DrawStringLimited(startX+2, startY+1, " Help (? to close, j/k to scroll) ", boxWidth-4, screen.HelpTitleStyle())

	lines := h.Lines()
	visible := bottom - (startY + 3)
	h.offset = min(h.offset, max(len(lines)-visible, 0))
	for i := 0; i < visible && h.offset+i < len(lines); i++ {
		screen.DrawStringLimited(startX+2, startY+3+i, lines[h.offset+i], boxWidth-4, contentStyle)
	}
}
